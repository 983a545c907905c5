package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleParser_Number(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Charizard 4/102 Base Set Holo", "4"},
		{"Mike Trout #27 Topps", "27"},
		{"Jayden Daniels #RC-25 Prizm", "RC-25"},
		{"Derek Jeter No. 117 SP", "117"},
		{"Derek Jeter No 117", "117"},
		{"Nolan Ryan 1975 Topps", ""},
		{"Wembanyama #136/299 Silver", "136"},
		{"Blastoise #2", "2"},
	}

	p := NewTitleParser(nil)
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Parse(tt.title).Number)
		})
	}
}

func TestTitleParser_Year(t *testing.T) {
	p := NewTitleParser(nil)

	assert.Equal(t, "1986", p.Parse("1986-87 Fleer Michael Jordan #57").Year)
	assert.Equal(t, "2023", p.Parse("Victor Wembanyama 2023 Prizm").Year)
	assert.Empty(t, p.Parse("Charizard 4/102").Year)
}

func TestTitleParser_StripsEmojiHypeAndSellerCodes(t *testing.T) {
	p := NewTitleParser(nil)

	got := p.Parse("🔥🔥 RARE Ken Griffey Jr 1989 Upper Deck #1 WOW 💎 **A12")

	assert.Equal(t, "Ken Griffey Jr", got.Name)
	assert.Equal(t, "1989", got.Year)
	assert.Equal(t, "Upper Deck", got.Set)
	assert.Equal(t, "1", got.Number)
}

func TestTitleParser_Grade(t *testing.T) {
	p := NewTitleParser(nil)

	got := p.Parse("Luka Doncic Prizm Rookie BGS Graded 9.5")
	assert.Equal(t, "BGS", got.Grader)
	assert.Equal(t, "9.5", got.Grade)

	got = p.Parse("Luka Doncic Prizm Rookie")
	assert.Empty(t, got.Grader)
	assert.Empty(t, got.Grade)
}

func TestTitleParser_QuotedName(t *testing.T) {
	p := NewTitleParser(nil)

	got := p.Parse(`2022 Pokemon “Mew VMAX” Alt Art #269 PSA 10`)
	assert.Equal(t, "Mew VMAX", got.Name)
	assert.Equal(t, "Mew VMAX", got.Quoted)
}

func TestTitleParser_NameAfterNumber(t *testing.T) {
	p := NewTitleParser(nil)

	got := p.Parse("2020 Panini Prizm #307 Justin Herbert Rookie Silver")
	assert.Equal(t, "Justin Herbert", got.Name)
	assert.Equal(t, "Panini Prizm", got.Set)
}

func TestTitleParser_SetPhraseNotInName(t *testing.T) {
	tests := []struct {
		title string
		set   string
		name  string
	}{
		{"2023 Bowman Draft Jackson Holliday #BD1 PSA 10", "Bowman Draft", "Jackson Holliday"},
		{"2018 Topps Update Shohei Ohtani #US1", "Topps Update", "Shohei Ohtani"},
		{"2021 Topps Heritage Wander Franco #215", "Topps Heritage", "Wander Franco"},
	}

	p := NewTitleParser(nil)
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := p.Parse(tt.title)
			assert.Equal(t, tt.set, got.Set)
			assert.Equal(t, tt.name, got.Name)
		})
	}
}

func TestTitleParser_TCGSet(t *testing.T) {
	p := NewTitleParser(nil)

	got := p.Parse("Charizard 4/102 Base Set Holo")
	assert.Equal(t, "Base Set", got.Set)
	assert.Equal(t, "Charizard", got.Name)
	assert.False(t, got.IsComic)
}

func TestTitleParser_Comic(t *testing.T) {
	p := NewTitleParser(nil)

	got := p.Parse("Amazing Spider-Man #129 CGC 9.8")
	assert.True(t, got.IsComic)
	assert.Equal(t, "Amazing Spider-Man", got.Series)
	assert.Equal(t, "Marvel", got.Publisher)
	assert.Equal(t, "Amazing Spider-Man", got.Name)
	assert.Empty(t, got.Set)

	got = p.Parse("Saga #1 CBCS 9.6 Image Comics First Print")
	assert.True(t, got.IsComic)
	assert.Equal(t, "Image", got.Publisher)

	got = p.Parse("Marvel Universe Spider-Man #1")
	assert.True(t, got.IsComic, "series list match")

	got = p.Parse("1990 Impel Marvel Universe Spider-Man #33 PSA 9")
	assert.False(t, got.IsComic, "card brand vetoes series match")
	assert.Equal(t, "Impel", got.Set)
	assert.Empty(t, got.Series)

	got = p.Parse("1992 SkyBox Marvel Masterpieces Spider-Man #1")
	assert.False(t, got.IsComic)
	assert.Equal(t, "SkyBox", got.Set)

	got = p.Parse("2023 Topps Chrome Batman #5")
	assert.False(t, got.IsComic, "card brand vetoes comic heuristic")
}

func TestTitleParser_Empty(t *testing.T) {
	p := NewTitleParser(nil)
	assert.Equal(t, TitleParse{}, p.Parse("   "))
}
