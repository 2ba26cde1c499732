package seed

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"regexp"
	"strings"
)

// TPC usernames are short alphanumerics with a few separators.
var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,32}$`)

// LoadOwners reads the seed username list used to pre-fill the form's
// autocomplete before anything has been cached. One username per CSV row,
// header skipped, malformed rows dropped (fail-soft).
func LoadOwners(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(stripBOM(f))

	var owners []string
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		line++
		if line == 1 {
			continue // skip header
		}
		if len(record) == 0 {
			continue
		}

		name := strings.TrimSpace(record[0])
		if !usernameRegex.MatchString(name) {
			continue
		}
		owners = append(owners, name)
	}
	return owners, nil
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	rdr, _, err := br.ReadRune()
	if err != nil {
		return br
	}
	if rdr != '\ufeff' {
		br.UnreadRune()
	}
	return br
}
