// Package harness validates the lookup pipeline against a file of real
// listings with known catalog answers.
package harness

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/iammike/cardcheck/internal/domain"
	"github.com/rotisserie/eris"
)

// Case is one listing and what the pipeline should make of it
type Case struct {
	Name                   string               `json:"name,omitempty"`
	Title                  string               `json:"title"`
	ItemSpecifics          domain.ItemSpecifics `json:"itemSpecifics"`
	ExpectedSite           domain.Site          `json:"expectedSite"`
	ExpectedResultName     string               `json:"expectedResultName,omitempty"`
	ExpectedResultCategory string               `json:"expectedResultCategory,omitempty"`
}

// Label names the case in reports
func (c Case) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Title
}

// LoadCases reads a case file from disk
func LoadCases(path string) ([]Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open cases %s", path)
	}
	defer f.Close()
	return ParseCases(f)
}

// ParseCases decodes either {"cases": [...]} or a bare array of cases
func ParseCases(r io.Reader) ([]Case, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "read cases")
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, eris.Wrap(domain.ErrInvalidRequest, "empty case file")
	}

	var cases []Case
	if data[0] == '[' {
		err = json.Unmarshal(data, &cases)
	} else {
		var wrapper struct {
			Cases []Case `json:"cases"`
		}
		err = json.Unmarshal(data, &wrapper)
		cases = wrapper.Cases
	}
	if err != nil {
		return nil, eris.Wrap(err, "decode cases")
	}

	for i, c := range cases {
		switch c.ExpectedSite {
		case domain.SiteSportsCards, domain.SiteGeneral:
		default:
			return nil, eris.Wrapf(domain.ErrInvalidRequest, "case %d (%s): unknown expectedSite %q", i+1, c.Label(), c.ExpectedSite)
		}
		if strings.TrimSpace(c.Title) == "" && len(c.ItemSpecifics) == 0 {
			return nil, eris.Wrapf(domain.ErrInvalidRequest, "case %d: needs a title or itemSpecifics", i+1)
		}
	}
	return cases, nil
}
