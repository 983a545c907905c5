package pricecharting

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var priceCellPattern = regexp.MustCompile(`^\$([\d,]+(?:\.\d*)?)$`)

// ParsePriceTable collects grade label -> price pairs from an item page. A pair
// is a table row whose first cell is a bare label cell and whose next cell
// carries a "price" class and a dollar amount. Non-positive or unreadable
// amounts are dropped; a later row for the same label wins.
func ParsePriceTable(r io.Reader) (map[string]float64, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	grades := make(map[string]float64)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			if label, price, ok := priceRow(n); ok {
				grades[label] = price
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return grades, nil
}

func priceRow(tr *html.Node) (string, float64, bool) {
	var cells []*html.Node
	for c := tr.FirstChild; c != nil && len(cells) < 2; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "td" {
			cells = append(cells, c)
		}
	}
	if len(cells) < 2 {
		return "", 0, false
	}

	labelCell, priceCell := cells[0], cells[1]
	if len(labelCell.Attr) > 0 || !hasClassContaining(priceCell, "price") {
		return "", 0, false
	}

	label := collapseSpace(textOf(labelCell))
	if label == "" {
		return "", 0, false
	}

	price, ok := ParsePrice(textOf(priceCell))
	if !ok {
		return "", 0, false
	}
	return label, price, true
}

// ParsePrice reads "$1,234.56" style amounts. Only positive amounts are accepted.
func ParsePrice(text string) (float64, bool) {
	m := priceCellPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, false
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}

func hasClassContaining(n *html.Node, fragment string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" && strings.Contains(a.Val, fragment) {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}
