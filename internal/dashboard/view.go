package dashboard

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/profilku/profilku/internal/models"
)

// ProfileView is the profile as the dashboard displays it.
type ProfileView struct {
	Initial       string
	Heading       string
	FullName      string
	Username      string
	Email         string
	AvatarURL     string
	PaymentLinked bool
	PaymentBadge  string
	PaymentAction string
	JoinDate      string
}

// NewProfileView builds the displayed profile. A nil profile (the fetch
// failed) gets the same fallbacks as a row with every optional field empty.
func NewProfileView(p *models.Profile) ProfileView {
	v := ProfileView{
		Initial:       Initial(p),
		Heading:       "Tidak ada nama",
		FullName:      "-",
		Username:      "-",
		Email:         "-",
		PaymentBadge:  "Belum Terhubung",
		PaymentAction: "Tautkan Pembayaran",
		JoinDate:      "-",
	}
	if p == nil {
		return v
	}
	v.Username = orDash(p.Username)
	v.Email = orDash(p.Email)
	v.JoinDate = FormatJoinDate(p.CreatedAt)
	if p.FullName != nil && *p.FullName != "" {
		v.Heading = *p.FullName
		v.FullName = *p.FullName
	}
	if p.AvatarURL != nil {
		v.AvatarURL = *p.AvatarURL
	}
	if p.PaymentLinked {
		v.PaymentLinked = true
		v.PaymentBadge = "Pembayaran Terhubung"
		v.PaymentAction = "Kelola Pembayaran"
	}
	return v
}

// Initial is the avatar fallback letter: first character of the full name,
// else of the username, else "U". Case is kept as stored.
func Initial(p *models.Profile) string {
	if p != nil {
		if p.FullName != nil {
			if r := firstRune(*p.FullName); r != "" {
				return r
			}
		}
		if r := firstRune(p.Username); r != "" {
			return r
		}
	}
	return "U"
}

func firstRune(s string) string {
	if s == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(s)
	return string(r)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

var months = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// wib is Western Indonesian Time; join dates are shown on the Jakarta calendar.
var wib = time.FixedZone("WIB", 7*60*60)

// created_at layouts seen from the table API, Postgres text output and plain dates.
var joinDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// FormatJoinDate renders created_at as an Indonesian long date, e.g.
// "19 Oktober 2026". Anything unparseable renders as "-".
func FormatJoinDate(createdAt string) string {
	for _, layout := range joinDateLayouts {
		t, err := time.Parse(layout, createdAt)
		if err != nil {
			continue
		}
		t = t.In(wib)
		return fmt.Sprintf("%d %s %d", t.Day(), months[t.Month()-1], t.Year())
	}
	return "-"
}
