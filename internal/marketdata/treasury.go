package marketdata

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"
)

// YieldPoint is one tenor on the par yield curve. Yield is a decimal
// (0.0425 for a 4.25% quote).
type YieldPoint struct {
	Tenor string  `json:"tenor"`
	Years float64 `json:"years"`
	Yield float64 `json:"yield"`
}

// YieldCurve is the full par curve for one business day.
type YieldCurve struct {
	Date   time.Time    `json:"date"`
	Source string       `json:"source"` // "feed" or "html"
	Points []YieldPoint `json:"points"` // ascending by Years
}

// tenors maps the Treasury feed field names and text-view column headers
// onto maturities in years.
var tenors = []struct {
	Field string
	Label string
	Years float64
}{
	{"BC_1MONTH", "1 Mo", 1.0 / 12},
	{"BC_2MONTH", "2 Mo", 2.0 / 12},
	{"BC_3MONTH", "3 Mo", 0.25},
	{"BC_4MONTH", "4 Mo", 4.0 / 12},
	{"BC_6MONTH", "6 Mo", 0.5},
	{"BC_1YEAR", "1 Yr", 1},
	{"BC_2YEAR", "2 Yr", 2},
	{"BC_3YEAR", "3 Yr", 3},
	{"BC_5YEAR", "5 Yr", 5},
	{"BC_7YEAR", "7 Yr", 7},
	{"BC_10YEAR", "10 Yr", 10},
	{"BC_20YEAR", "20 Yr", 20},
	{"BC_30YEAR", "30 Yr", 30},
}

// Treasury fetches the daily par yield curve from treasury.gov.
type Treasury struct {
	feedURL string
	htmlURL string
	cache   *Cache
	limiter *RateLimiter
	parser  *gofeed.Parser
}

// NewTreasury creates a Treasury client. TTL should be generous: the
// published curve changes once per business day.
func NewTreasury(feedURL, htmlURL string, cacheTTL time.Duration, ratePerSec int) *Treasury {
	if ratePerSec < 1 {
		ratePerSec = 1
	}
	return &Treasury{
		feedURL: feedURL,
		htmlURL: htmlURL,
		cache:   NewCache(cacheTTL),
		limiter: NewRateLimiter(ratePerSec, time.Second),
		parser:  gofeed.NewParser(),
	}
}

// Name returns the data source name.
func (t *Treasury) Name() string { return "US Treasury" }

// GetYieldCurve returns the latest daily par yield curve. Both sources
// are tried concurrently; the XML feed wins when it succeeds, the HTML
// table is the fallback.
func (t *Treasury) GetYieldCurve(ctx context.Context) (*YieldCurve, error) {
	if cached, ok := t.cache.Get("yieldcurve"); ok {
		return cached.(*YieldCurve), nil
	}

	var feedCurve, htmlCurve *YieldCurve
	var feedErr, htmlErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		feedCurve, feedErr = t.fetchFeed(gctx)
		return nil // failure of one source is not fatal
	})
	g.Go(func() error {
		htmlCurve, htmlErr = t.fetchHTML(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	curve := feedCurve
	if curve == nil {
		curve = htmlCurve
	}
	if curve == nil {
		if feedErr != nil {
			return nil, feedErr
		}
		if htmlErr != nil {
			return nil, htmlErr
		}
		return nil, ErrNoCurveData
	}

	t.cache.Set("yieldcurve", curve)
	return curve, nil
}

// InvalidateCache drops the cached curve so the next call refetches.
func (t *Treasury) InvalidateCache() { t.cache.Flush() }

// --- XML feed ---

// fetchFeed reads the Treasury OData Atom feed and builds the curve from
// the most recent entry.
func (t *Treasury) fetchFeed(ctx context.Context) (*YieldCurve, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := t.parser.ParseURLWithContext(t.feedURL, ctx)
	if err != nil {
		return nil, err
	}

	var best *YieldCurve
	for _, item := range feed.Items {
		curve, ok := parseFeedEntry(item.Content)
		if !ok {
			continue
		}
		if best == nil || curve.Date.After(best.Date) {
			best = curve
		}
	}
	if best == nil {
		return nil, ErrNoCurveData
	}
	return best, nil
}

// parseFeedEntry extracts the curve from one OData entry's properties
// block. Entries look like:
//
//	<d:NEW_DATE m:type="Edm.DateTime">2026-08-28T00:00:00</d:NEW_DATE>
//	<d:BC_10YEAR m:type="Edm.Double">4.25</d:BC_10YEAR>
func parseFeedEntry(content string) (*YieldCurve, bool) {
	dateStr, ok := extractTag(content, "NEW_DATE")
	if !ok {
		return nil, false
	}
	date, err := parseCurveDate(dateStr)
	if err != nil {
		return nil, false
	}

	curve := &YieldCurve{Date: date, Source: "feed"}
	for _, tn := range tenors {
		raw, ok := extractTag(content, tn.Field)
		if !ok {
			continue
		}
		pct, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			continue
		}
		curve.Points = append(curve.Points, YieldPoint{
			Tenor: tn.Label,
			Years: tn.Years,
			Yield: pct / 100,
		})
	}
	if len(curve.Points) == 0 {
		return nil, false
	}
	return curve, true
}

// extractTag pulls the text of <d:TAG ...>text</d:TAG> from an OData
// properties block. Self-closing (null) elements report not found.
func extractTag(content, tag string) (string, bool) {
	lower := strings.ToLower(content)
	open := "<d:" + strings.ToLower(tag)
	i := strings.Index(lower, open)
	if i < 0 {
		return "", false
	}
	j := strings.Index(lower[i:], ">")
	if j < 0 {
		return "", false
	}
	if strings.HasSuffix(lower[i:i+j+1], "/>") {
		return "", false
	}
	start := i + j + 1
	k := strings.Index(lower[start:], "</d:"+strings.ToLower(tag))
	if k < 0 {
		return "", false
	}
	return strings.TrimSpace(content[start : start+k]), true
}

// --- HTML fallback ---

// fetchHTML scrapes the text-view table and takes its last row, which is
// the most recent business day.
func (t *Treasury) fetchHTML(ctx context.Context) (*YieldCurve, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := doGet(ctx, t.htmlURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, err
	}

	var headers []string
	doc.Find("table thead th").Each(func(_ int, sel *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(sel.Text()))
	})
	if len(headers) == 0 {
		return nil, ErrNoCurveData
	}

	var cells []string
	doc.Find("table tbody tr").Last().Find("td").Each(func(_ int, sel *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(sel.Text()))
	})
	if len(cells) == 0 {
		return nil, ErrNoCurveData
	}

	curve := &YieldCurve{Source: "html"}
	for i, h := range headers {
		if i >= len(cells) {
			break
		}
		if strings.EqualFold(h, "Date") {
			if date, err := parseCurveDate(cells[i]); err == nil {
				curve.Date = date
			}
			continue
		}
		for _, tn := range tenors {
			if !strings.EqualFold(h, tn.Label) {
				continue
			}
			pct, err := strconv.ParseFloat(cells[i], 64)
			if err != nil {
				break // N/A cell
			}
			curve.Points = append(curve.Points, YieldPoint{
				Tenor: tn.Label,
				Years: tn.Years,
				Yield: pct / 100,
			})
			break
		}
	}
	if len(curve.Points) == 0 {
		return nil, ErrNoCurveData
	}

	sort.Slice(curve.Points, func(i, j int) bool {
		return curve.Points[i].Years < curve.Points[j].Years
	})
	return curve, nil
}

// parseCurveDate accepts the feed's ISO timestamp and the table's
// MM/DD/YYYY format.
func parseCurveDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02", "01/02/2006"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized curve date %q", s)
}

// --- interpolation ---

// InterpolateYield reads a yield off the curve at an arbitrary maturity
// by linear interpolation, clamping outside the quoted range. Returns
// false when the curve has no points.
func InterpolateYield(curve *YieldCurve, years float64) (float64, bool) {
	if curve == nil || len(curve.Points) == 0 {
		return 0, false
	}
	pts := curve.Points
	if years <= pts[0].Years {
		return pts[0].Yield, true
	}
	last := pts[len(pts)-1]
	if years >= last.Years {
		return last.Yield, true
	}
	for i := 1; i < len(pts); i++ {
		if years > pts[i].Years {
			continue
		}
		lo, hi := pts[i-1], pts[i]
		frac := (years - lo.Years) / (hi.Years - lo.Years)
		return lo.Yield + frac*(hi.Yield-lo.Yield), true
	}
	return last.Yield, true
}
