package congregation_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-gabbai/internal/congregation"
	"github.com/tartampluch/go-gabbai/internal/store"
	"github.com/tartampluch/go-gabbai/internal/validate"
)

const syn = "1"

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func member(t *testing.T, s *congregation.Service, first, last, phone string) congregation.Congregant {
	t.Helper()
	c, err := s.AddCongregant(congregation.Congregant{SynagogueID: syn, FirstName: first, LastName: last, Phone: phone})
	require.NoError(t, err)
	return c
}

func TestMoney_String(t *testing.T) {
	tests := []struct {
		in   congregation.Money
		want string
	}{
		{congregation.Shekels(180), "₪180.00"},
		{congregation.Money(1850), "₪18.50"},
		{congregation.Money(5), "₪0.05"},
		{congregation.Shekels(-150), "-₪150.00"},
		{0, "₪0.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.String())
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    congregation.Money
		wantErr bool
	}{
		{"180", 18000, false},
		{"₪180.50", 18050, false},
		{"18.5", 1850, false},
		{" 7 ", 700, false},
		{"1.234", 0, true},
		{"abc", 0, true},
		{"5.", 0, true},
		{"1.-5", 0, true},
		{"1.+5", 0, true},
		{"-2.50", -250, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := congregation.ParseMoney(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddCongregant(t *testing.T) {
	s := congregation.NewMemoryService()

	c := member(t, s, " יוסף ", "כהן", "050-1234567")
	assert.Equal(t, congregation.StatusActive, c.Status, "status defaults to ACTIVE")
	assert.Equal(t, "יוסף כהן", c.FullName())
	assert.False(t, c.CreatedAt.IsZero())

	_, err := s.AddCongregant(congregation.Congregant{SynagogueID: syn, FirstName: "x"})
	var fe *validate.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.True(t, fe.Has("lastName"))
	assert.True(t, fe.Has("phone"))

	_, err = s.AddCongregant(congregation.Congregant{SynagogueID: syn, FirstName: "a", LastName: "b", Phone: "1", Email: "bad"})
	assert.ErrorIs(t, err, validate.ErrValidation)
}

func TestUpdateCongregant(t *testing.T) {
	s := congregation.NewMemoryService()
	c := member(t, s, "דוד", "לוי", "052-1111111")

	got, err := s.UpdateCongregant(c.ID, congregation.Patch{
		Email:   ptr("david@example.org"),
		Status:  ptr(congregation.StatusInactive),
		Address: &congregation.Address{Street: "הרצל", HouseNumber: "5", City: "ירושלים"},
	})
	require.NoError(t, err)
	assert.Equal(t, "david@example.org", got.Email)
	assert.Equal(t, congregation.StatusInactive, got.Status)
	assert.Equal(t, "דוד", got.FirstName)
	require.NotNil(t, got.Address)
	assert.Equal(t, "הרצל 5, ירושלים", got.Address.String())

	_, err = s.UpdateCongregant(c.ID, congregation.Patch{Status: ptr(congregation.Status("GONE"))})
	assert.ErrorIs(t, err, validate.ErrValidation)

	_, err = s.UpdateCongregant("missing", congregation.Patch{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListAndSearch(t *testing.T) {
	s := congregation.NewMemoryService()
	member(t, s, "משה", "לוי", "050-3")
	member(t, s, "יוסף", "כהן", "050-1")
	member(t, s, "אהרן", "כהן", "050-2")
	_, err := s.AddCongregant(congregation.Congregant{SynagogueID: "2", FirstName: "יעקב", LastName: "כהן", Phone: "050-4"})
	require.NoError(t, err)

	names := func(cs []congregation.Congregant) []string {
		out := make([]string, len(cs))
		for i, c := range cs {
			out[i] = c.FullName()
		}
		return out
	}

	assert.Equal(t, []string{"אהרן כהן", "יוסף כהן", "משה לוי"}, names(s.List(syn)))
	assert.Equal(t, []string{"אהרן כהן", "יוסף כהן"}, names(s.Search(syn, "כהן")))
	assert.Equal(t, []string{"משה לוי"}, names(s.Search(syn, "050-3")))
	assert.Len(t, s.Search(syn, "  "), 3)
	assert.Empty(t, s.Search(syn, "nobody"))
}

func TestSearch_IgnoresCase(t *testing.T) {
	s := congregation.NewMemoryService()
	_, err := s.AddCongregant(congregation.Congregant{SynagogueID: syn, FirstName: "David", LastName: "Levy", Phone: "1", Email: "David@Example.org"})
	require.NoError(t, err)
	assert.Len(t, s.Search(syn, "LEVY"), 1)
	assert.Len(t, s.Search(syn, "david@example"), 1)
}

func TestRemoveCongregantCascades(t *testing.T) {
	s := congregation.NewMemoryService()
	c := member(t, s, "a", "b", "1")
	_, err := s.AddCharge(congregation.Charge{CongregantID: c.ID, Kind: congregation.KindPledge, Description: "קידוש", Amount: congregation.Shekels(300), Date: day(2025, 2, 20)})
	require.NoError(t, err)

	require.NoError(t, s.RemoveCongregant(c.ID))
	assert.Empty(t, s.Charges(c.ID))
	assert.ErrorIs(t, s.RemoveCongregant(c.ID), store.ErrNotFound)
}

func TestImportVCards(t *testing.T) {
	s := congregation.NewMemoryService()
	member(t, s, "יוסף", "כהן", "050-1234567")

	data := strings.Join([]string{
		"BEGIN:VCARD", "VERSION:3.0", "N:לוי;דוד;;;", "FN:דוד לוי", "TEL:052-7654321", "TEL:02-5555555",
		"EMAIL:david@example.org", "ADR:;;הרצל 5;ירושלים;;9100000;ישראל", "END:VCARD",
		"BEGIN:VCARD", "VERSION:3.0", "FN:Moshe Avraham", "TEL:054-0000000", "END:VCARD",
		"BEGIN:VCARD", "VERSION:3.0", "FN:יוסף כהן", "TEL:0501234567", "END:VCARD",
		"BEGIN:VCARD", "VERSION:3.0", "FN:No Phone", "END:VCARD",
		"BEGIN:VCARD", "VERSION:3.0", "TEL:000", "END:VCARD",
	}, "\r\n") + "\r\n"

	stats, err := s.ImportVCards(context.Background(), syn, strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Processed)
	assert.Equal(t, 2, stats.Imported)
	assert.Equal(t, 3, stats.Skipped, "duplicate phone, missing phone and missing name")

	found := s.Search(syn, "לוי")
	require.Len(t, found, 1)
	d := found[0]
	assert.Equal(t, "דוד", d.FirstName)
	assert.Equal(t, "02-5555555", d.SecondaryPhone)
	assert.Equal(t, "david@example.org", d.Email)
	require.NotNil(t, d.Address)
	assert.Equal(t, "ירושלים", d.Address.City)

	moshe := s.Search(syn, "Avraham")
	require.Len(t, moshe, 1)
	assert.Equal(t, "Moshe", moshe[0].FirstName)
}

func TestImportVCards_Cancelled(t *testing.T) {
	s := congregation.NewMemoryService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.ImportVCards(ctx, syn, strings.NewReader("BEGIN:VCARD\r\nVERSION:3.0\r\nFN:a b\r\nTEL:1\r\nEND:VCARD\r\n"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, s.List(syn))
}
