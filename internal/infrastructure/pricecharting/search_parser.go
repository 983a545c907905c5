package pricecharting

import (
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/iammike/cardcheck/internal/domain"
)

// ParseSearchResults reads the result rows of a catalog search page. Each row
// pairs a title link to an item page with the set/category link under it.
// Relative links are resolved against base. Markup that carries no rows yields
// an empty slice.
func ParseSearchResults(r io.Reader, base *url.URL) ([]domain.CandidateRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	rows := []domain.CandidateRow{}
	doc.Find("td.title").Each(func(_ int, cell *goquery.Selection) {
		link := cell.Find(`a[href*="/game/"]`).First()
		if link.Length() == 0 {
			return
		}
		href, _ := link.Attr("href")
		itemURL := resolve(base, href)
		name := collapseSpace(link.Text())
		if itemURL == "" || name == "" {
			return
		}

		category := cell.Find("div.console-in-title a").First()
		if category.Length() == 0 {
			category = cell.Closest("tr").Find("div.console-in-title a").First()
		}

		rows = append(rows, domain.CandidateRow{
			Name:     name,
			URL:      itemURL,
			Category: collapseSpace(category.Text()),
		})
	})

	return rows, nil
}

// ParsePageTitle returns the item name from an item page's <title>, which the
// catalog writes as "Name | Site". Missing titles give "".
func ParsePageTitle(r io.Reader) string {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return ""
	}
	title := doc.Find("title").First().Text()
	if i := strings.Index(title, "|"); i >= 0 {
		title = title[:i]
	}
	return collapseSpace(title)
}

func resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
