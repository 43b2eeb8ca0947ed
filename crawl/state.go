package crawl

import "fmt"

// Circuit breaker defaults.
const (
	// DefaultMinPosts is the post count below which a page without new
	// media counts as fruitless.
	DefaultMinPosts = 5

	// DefaultMaxFruitless is the number of consecutive fruitless pages
	// that ends the crawl.
	DefaultMaxFruitless = 20

	// DefaultMaxDejaVu is the number of consecutive pages holding only
	// already-harvested media that ends an updates-only crawl.
	DefaultMaxDejaVu = 3
)

// StopReason explains why page enumeration ended.
type StopReason int

const (
	StopNone StopReason = iota
	StopEmptyPage
	StopFruitless
	StopDejaVu
	StopPageLimit
	StopSinglePost
	StopAborted
)

func (r StopReason) String() string {
	switch r {
	case StopNone:
		return "none"
	case StopEmptyPage:
		return "empty page"
	case StopFruitless:
		return "too many fruitless pages"
	case StopDejaVu:
		return "reached previously harvested pages"
	case StopPageLimit:
		return "page limit"
	case StopSinglePost:
		return "single post"
	case StopAborted:
		return "aborted"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Limits configures when page enumeration stops.
type Limits struct {
	MinPosts     int
	MaxFruitless int
	MaxDejaVu    int

	// OriginalsOnly keeps going past pages without posts, since the
	// site may still list original posts further on.
	OriginalsOnly bool

	// UpdatesOnly stops once the crawl reaches media harvested by an
	// earlier run.
	UpdatesOnly bool

	// MaxPages stops after this many pages. Zero means no limit.
	MaxPages int
}

// DefaultLimits returns the standard circuit breaker settings.
func DefaultLimits() Limits {
	return Limits{
		MinPosts:     DefaultMinPosts,
		MaxFruitless: DefaultMaxFruitless,
		MaxDejaVu:    DefaultMaxDejaVu,
	}
}

// PageOutcome summarizes one processed listing page.
type PageOutcome struct {
	Posts int

	// Fresh is the number of media URLs queued for download.
	Fresh int

	// Known is the number of media URLs skipped as already harvested or queued.
	Known int
}

// State is the crawl's bookkeeping across pages. It is owned by a single
// goroutine.
type State struct {
	Limits Limits

	Page      int
	Pages     int
	Fruitless int
	DejaVu    int
	Posts     int
	Queued    int
}

// Observe records the outcome of the current page and reports whether
// enumeration must stop.
func (s *State) Observe(out PageOutcome) StopReason {
	s.Pages++
	s.Posts += out.Posts
	s.Queued += out.Fresh

	if out.Posts == 0 && !s.Limits.OriginalsOnly {
		return StopEmptyPage
	}

	if out.Fresh > 0 {
		s.DejaVu = 0
	} else if out.Known > 0 {
		s.DejaVu++
	}

	if out.Posts < s.Limits.MinPosts && out.Fresh == 0 {
		s.Fruitless++
	} else {
		s.Fruitless = 0
	}

	switch {
	case s.Limits.MaxFruitless > 0 && s.Fruitless >= s.Limits.MaxFruitless:
		return StopFruitless
	case s.Limits.UpdatesOnly && s.Limits.MaxDejaVu > 0 && s.DejaVu >= s.Limits.MaxDejaVu:
		return StopDejaVu
	case s.Limits.MaxPages > 0 && s.Pages >= s.Limits.MaxPages:
		return StopPageLimit
	}
	return StopNone
}
