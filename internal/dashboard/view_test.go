package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/profilku/profilku/internal/models"
)

func TestNewProfileView_MinimalRow(t *testing.T) {
	v := NewProfileView(&models.Profile{
		ID:        "u1",
		Email:     "a@b.com",
		Username:  "abc",
		CreatedAt: "2026-10-19T03:00:00Z",
	})
	assert.Equal(t, "a", v.Initial)
	assert.Equal(t, "Tidak ada nama", v.Heading)
	assert.Equal(t, "-", v.FullName)
	assert.Equal(t, "abc", v.Username)
	assert.Equal(t, "a@b.com", v.Email)
	assert.Equal(t, "", v.AvatarURL)
	assert.Equal(t, "Belum Terhubung", v.PaymentBadge)
	assert.Equal(t, "Tautkan Pembayaran", v.PaymentAction)
	assert.Equal(t, "19 Oktober 2026", v.JoinDate)
}

func TestNewProfileView_FullRow(t *testing.T) {
	v := NewProfileView(&models.Profile{
		Username:      "budi",
		FullName:      strptr("budi Santoso"),
		AvatarURL:     strptr("avatars/u1.png"),
		PaymentLinked: true,
		CreatedAt:     "not a date",
	})
	assert.Equal(t, "b", v.Initial)
	assert.Equal(t, "budi Santoso", v.Heading)
	assert.Equal(t, "budi Santoso", v.FullName)
	assert.Equal(t, "avatars/u1.png", v.AvatarURL)
	assert.Equal(t, "Pembayaran Terhubung", v.PaymentBadge)
	assert.Equal(t, "Kelola Pembayaran", v.PaymentAction)
	assert.Equal(t, "-", v.JoinDate)
}

func TestNewProfileView_NilProfile(t *testing.T) {
	v := NewProfileView(nil)
	assert.Equal(t, "U", v.Initial)
	assert.Equal(t, "Tidak ada nama", v.Heading)
	assert.Equal(t, "-", v.FullName)
	assert.Equal(t, "-", v.Username)
	assert.Equal(t, "-", v.Email)
	assert.Equal(t, "", v.AvatarURL)
	assert.False(t, v.PaymentLinked)
	assert.Equal(t, "Belum Terhubung", v.PaymentBadge)
	assert.Equal(t, "Tautkan Pembayaran", v.PaymentAction)
	assert.Equal(t, "-", v.JoinDate)
}

func TestInitial(t *testing.T) {
	cases := []struct {
		name string
		p    *models.Profile
		want string
	}{
		{"nil profile", nil, "U"},
		{"full name first", &models.Profile{FullName: strptr("Zaki"), Username: "abc"}, "Z"},
		{"empty full name falls back", &models.Profile{FullName: strptr(""), Username: "abc"}, "a"},
		{"nothing", &models.Profile{}, "U"},
		{"multibyte", &models.Profile{FullName: strptr("Émile")}, "É"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Initial(tc.p))
		})
	}
}

func TestFormatJoinDate(t *testing.T) {
	cases := map[string]string{
		"2024-03-05T10:00:00.123456+00:00": "5 Maret 2024",
		"2024-03-05T20:00:00Z":             "6 Maret 2024",
		"2024-01-01 08:30:00.5+00":         "1 Januari 2024",
		"2024-12-31":                       "31 Desember 2024",
		"":                                 "-",
		"kemarin":                          "-",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatJoinDate(in), in)
	}
}
