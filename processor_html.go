package main

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/pstuifzand/go-textconv/convert"
)

// HTML tools built on goquery.

var (
	tagPattern = regexp.MustCompile(`<[^>]*>`)
	spaceRun   = regexp.MustCompile(`\s+`)
)

func htmlEncode(input string, _ Params) (Output, error) {
	return Output{Text: convert.EscapeHTML(input)}, nil
}

func htmlDecode(input string, _ Params) (Output, error) {
	return Output{Text: html.UnescapeString(input)}, nil
}

// stripTags removes HTML/XML tags
func stripTags(input string, _ Params) (Output, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		// Fallback to simple regex-based tag stripping
		return Output{Text: html.UnescapeString(tagPattern.ReplaceAllString(input, ""))}, nil
	}

	doc.Find("script, style").Remove()
	return Output{Text: doc.Text()}, nil
}

// findHTMLLinks lists the links of a page. format may use {text} and
// {href}; without it each link is printed as text and href on two lines.
func findHTMLLinks(input string, params Params) (Output, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return Output{}, &convert.InvalidInputError{Tool: "find-html-links", Reason: err.Error(), Position: -1}
	}

	format := processEscapeSequences(params["format"])
	var lines []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		text := spaceRun.ReplaceAllString(strings.TrimSpace(s.Text()), " ")

		if format == "" {
			lines = append(lines, text, href)
			return
		}
		lines = append(lines, strings.NewReplacer("{text}", text, "{href}", href).Replace(format))
	})

	return Output{
		Text:  strings.Join(lines, "\n"),
		Stats: map[string]int{"links": doc.Find("a[href]").Length()},
	}, nil
}

// selectHTML prints the elements matching a CSS selector. output is a
// "|" separated list of text, inner, outer and attr:NAME, applied to
// every match in turn; it defaults to text.
func selectHTML(input string, params Params) (Output, error) {
	selector := params["selector"]
	if selector == "" {
		return Output{Text: input}, nil
	}
	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return Output{}, &convert.InvalidInputError{Tool: "select-html", Reason: "invalid selector: " + err.Error(), Position: -1}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return Output{}, &convert.InvalidInputError{Tool: "select-html", Reason: err.Error(), Position: -1}
	}

	fields := strings.Split(params.Get("output", "text"), "|")
	selection := doc.FindMatcher(matcher)

	var lines []string
	selection.Each(func(_ int, s *goquery.Selection) {
		for _, field := range fields {
			switch field = strings.TrimSpace(field); {
			case field == "text":
				lines = append(lines, s.Text())
			case field == "inner":
				inner, _ := s.Html()
				lines = append(lines, inner)
			case field == "outer":
				outer, _ := goquery.OuterHtml(s)
				lines = append(lines, outer)
			case strings.HasPrefix(field, "attr:"):
				if v, ok := s.Attr(strings.TrimPrefix(field, "attr:")); ok {
					lines = append(lines, v)
				}
			}
		}
	})

	return Output{
		Text:  strings.Join(lines, "\n"),
		Stats: map[string]int{"matched": selection.Length()},
	}, nil
}
