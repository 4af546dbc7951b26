package feeds

import (
	"bufio"
	"strings"
)

// ParseSequence extracts the residues from a FASTA record. The header line is
// discarded and the remaining lines are concatenated without whitespace.
func ParseSequence(text string) string {
	var b strings.Builder
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), maxBody)
	for header := true; sc.Scan(); header = false {
		if header {
			continue
		}
		b.WriteString(strings.TrimSpace(sc.Text()))
	}
	return b.String()
}
