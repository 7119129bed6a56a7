package storefront

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var (
	descriptionHeading = regexp.MustCompile(`(?i)product\s+description`)
	whitespace         = regexp.MustCompile(`\s+`)
	titleSuffix        = regexp.MustCompile(`(?i)\s*\|\s*STOVE STORE\s*$`)
	gameLinkPattern    = regexp.MustCompile(`/en/games/(\d+)`)
	pixelPattern       = regexp.MustCompile(`(?i)(width|height)\s*:\s*(\d+)px`)
	iconFilePattern    = regexp.MustCompile(`(?i)(icon|square|타이틀섬네일|title[_-]?thumb)`)
	bannerFilePattern  = regexp.MustCompile(`(?i)(banner|background|[_/-]bg[_.-])`)
)

const (
	carouselSelector  = `[class*="carousel"], [class*="swiper"], [class*="slick"]`
	thumbnailSelector = `[class*="thumb"], [class*="Thumb"]`
	releaseLayout     = "2006.01.02"
)

// selectDescription returns the inner HTML of the editor block under a
// "product description" heading, or else of the block with the most
// non-whitespace text. Ties keep the first block.
func selectDescription(doc *goquery.Document) string {
	views := doc.Find("div.inds-editor-view")

	var labelled string
	views.EachWithBreak(func(_ int, view *goquery.Selection) bool {
		heading := strings.TrimSpace(view.Parent().Find("h3").First().Text())
		if descriptionHeading.MatchString(heading) {
			labelled = innerHTML(view)
			return false
		}
		return true
	})
	if labelled != "" {
		return labelled
	}

	var best string
	bestLen := 0
	views.Each(func(_ int, view *goquery.Selection) {
		n := len(whitespace.ReplaceAllString(view.Text(), ""))
		if n > bestLen {
			bestLen = n
			best = innerHTML(view)
		}
	})
	return best
}

// selectIcon looks for an image inside a square thumbnail container first,
// then for an icon-like file name outside banners and carousels.
func selectIcon(doc *goquery.Document) string {
	var icon string
	doc.Find(thumbnailSelector).EachWithBreak(func(_ int, box *goquery.Selection) bool {
		w, h := dimensions(box)
		if w == 0 || w != h {
			return true
		}
		if src, ok := box.Find("img").First().Attr("src"); ok && src != "" {
			icon = src
			return false
		}
		return true
	})
	if icon != "" {
		return normalizeURL(icon)
	}

	doc.Find("img[src]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src := img.AttrOr("src", "")
		if src == "" || bannerFilePattern.MatchString(src) || !iconFilePattern.MatchString(fileName(src)) {
			return true
		}
		if img.Closest(carouselSelector).Length() > 0 {
			return true
		}
		icon = src
		return false
	})
	return normalizeURL(icon)
}

// dimensions reads width and height from attributes or inline style.
func dimensions(s *goquery.Selection) (int, int) {
	w, _ := strconv.Atoi(s.AttrOr("width", ""))
	h, _ := strconv.Atoi(s.AttrOr("height", ""))
	for _, m := range pixelPattern.FindAllStringSubmatch(s.AttrOr("style", ""), -1) {
		n, _ := strconv.Atoi(m[2])
		if strings.EqualFold(m[1], "width") {
			w = n
		} else {
			h = n
		}
	}
	return w, h
}

func parseListing(doc *goquery.Document, productNo int64, storeURL string) (*Listing, []string) {
	var degraded []string
	l := &Listing{ProductNo: productNo, StoreURL: storeURL}

	l.Title = parseTitle(doc)
	if l.Title == "" {
		degraded = append(degraded, "title")
	}

	readDetails(doc, l)

	doc.Find(`a[href*="features="]`).Each(func(_ int, a *goquery.Selection) {
		text := strings.TrimSpace(a.Text())
		name, ok := strings.CutPrefix(text, "#")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return
		}
		for _, t := range l.Tags {
			if t.Name == name {
				return
			}
		}
		l.Tags = append(l.Tags, Tag{Name: name})
	})

	if l.Description = selectDescription(doc); l.Description == "" {
		degraded = append(degraded, "description")
	}
	if l.CoverURL = selectCover(doc); l.CoverURL == "" {
		degraded = append(degraded, "cover")
	}
	if l.IconURL = selectIcon(doc); l.IconURL == "" {
		degraded = append(degraded, "icon")
	}

	return l, degraded
}

func parseTitle(doc *goquery.Document) string {
	raw, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content")
	if !ok {
		raw = doc.Find("title").First().Text()
	}
	raw = titleSuffix.ReplaceAllString(raw, "")
	if before, _, found := strings.Cut(raw, "|"); found {
		raw = before
	}
	return strings.TrimSpace(raw)
}

// readDetails walks dt/dd pairs of the product facts list.
func readDetails(doc *goquery.Document, l *Listing) {
	nodes := doc.Find("dl dt, dl dd")
	for i := 0; i+1 < nodes.Length(); i += 2 {
		label := strings.ToLower(strings.TrimSpace(nodes.Eq(i).Text()))
		value := nodes.Eq(i + 1)
		name := anchorText(value)
		if label == "" || name == "" {
			continue
		}

		switch label {
		case "genre":
			l.Genres = append(l.Genres, Tag{Name: name})
		case "creator", "developer":
			l.Developers = append(l.Developers, name)
		case "publisher":
			l.Publishers = append(l.Publishers, name)
		case "release":
			if t, err := time.Parse(releaseLayout, name); err == nil {
				l.ReleaseDate = t
			}
		}
	}
}

func anchorText(s *goquery.Selection) string {
	if a := s.Find("a").First(); a.Length() > 0 {
		return strings.TrimSpace(a.Text())
	}
	return strings.TrimSpace(s.Text())
}

func selectCover(doc *goquery.Document) string {
	if src, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok && src != "" {
		return normalizeURL(src)
	}
	for _, sel := range []string{
		`img[src*="타이틀섬네일"]`,
		`img[src*="cloudfront"]`,
		`img[src*="cdn.onstove.com"]`,
		`img[src*="image.onstove.com"]`,
	} {
		if src := doc.Find(sel).First().AttrOr("src", ""); src != "" {
			return normalizeURL(src)
		}
	}
	return ""
}

// parseProfileGameIDs collects product numbers linked from a profile page,
// skipping entries marked as DLC. Order is preserved, duplicates dropped.
func parseProfileGameIDs(doc *goquery.Document) []string {
	var ids []string
	seen := make(map[string]struct{})

	doc.Find(`a[href*="/en/games/"]`).Each(func(_ int, a *goquery.Selection) {
		m := gameLinkPattern.FindStringSubmatch(a.AttrOr("href", ""))
		if m == nil {
			return
		}
		if kind := a.Parent().Closest("[productdetailtype]"); kind.Length() > 0 &&
			strings.EqualFold(kind.AttrOr("productdetailtype", ""), "DLC") {
			return
		}
		if _, dup := seen[m[1]]; dup {
			return
		}
		seen[m[1]] = struct{}{}
		ids = append(ids, m[1])
	})
	return ids
}

func innerHTML(s *goquery.Selection) string {
	html, err := s.Html()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(html)
}

func fileName(src string) string {
	if i := strings.IndexAny(src, "?#"); i >= 0 {
		src = src[:i]
	}
	return src[strings.LastIndex(src, "/")+1:]
}

func normalizeURL(src string) string {
	src = strings.TrimSpace(src)
	if strings.HasPrefix(src, "//") {
		return "https:" + src
	}
	return src
}
