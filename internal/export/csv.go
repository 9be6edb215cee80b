// Package export renders ranked profiles as CSV.
package export

import (
	"io"
	"strconv"
	"strings"
	"time"

	"influencerfinder/internal/models"
)

// ContentType is the MIME type of WriteCSV output.
const ContentType = "text/csv; charset=utf-8"

// Header is the first CSV line.
var Header = []string{
	"Username", "Nom", "Abonnés", "Engagement %", "Likes moy.", "Comments moy.", "Email", "Score", "URL", "Bio",
}

// WriteCSV writes one line per profile, in order, joined by "\n" with no
// trailing newline. The bio column is always quoted; other fields only
// when they contain a delimiter, a quote or a line break.
func WriteCSV(w io.Writer, profiles []models.ScoredProfile) error {
	var b strings.Builder
	writeRow(&b, Header, -1)
	for _, p := range profiles {
		b.WriteByte('\n')
		writeRow(&b, []string{
			p.Username,
			p.FullName,
			strconv.Itoa(p.Followers),
			strconv.FormatFloat(p.EngagementRate, 'f', -1, 64),
			strconv.Itoa(p.AvgLikes),
			strconv.Itoa(p.AvgComments),
			p.EmailAddress(),
			strconv.Itoa(p.Score),
			p.ProfileURL,
			p.Bio,
		}, len(Header)-1)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Filename names an export made at now.
func Filename(now time.Time) string {
	return "influenceurs_" + now.UTC().Format("2006-01-02") + ".csv"
}

func writeRow(b *strings.Builder, fields []string, alwaysQuote int) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		if i == alwaysQuote || strings.ContainsAny(f, ",\"\r\n") {
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(f, `"`, `""`))
			b.WriteByte('"')
			continue
		}
		b.WriteString(f)
	}
}
