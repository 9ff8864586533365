package catalog

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/yennietran/AIDD-Final-Project/internal/availability"
	"github.com/yennietran/AIDD-Final-Project/internal/booking"
	"github.com/yennietran/AIDD-Final-Project/internal/pkg/apperror"
	"github.com/yennietran/AIDD-Final-Project/internal/resource"
	"github.com/yennietran/AIDD-Final-Project/internal/review"
)

var (
	ErrInvalidDate = apperror.New(http.StatusBadRequest, "available_on must be formatted as YYYY-MM-DD")
	ErrInvalidTime = apperror.New(http.StatusBadRequest, "available_at must be formatted as HH:MM")
	ErrInvalidSort = apperror.New(http.StatusBadRequest, "sort must be one of recent, most_booked, top_rated")
)

const (
	SortRecent     = "recent"
	SortMostBooked = "most_booked"
	SortTopRated   = "top_rated"

	// probeSlot is the window length used when checking whether a resource
	// is free around a requested date or time.
	probeSlot = time.Hour

	// scanLimit caps how many published resources one search considers.
	// Filtering and ranking happen in memory, so the page returned to the
	// caller stays consistent across sort modes.
	scanLimit = 500
)

type SearchRequest struct {
	Keyword     string
	Category    string
	Location    string
	MinCapacity int

	// AvailableOn restricts results to resources open (and not fully booked)
	// on a calendar day. AvailableAt narrows the probe to a clock time and
	// requires AvailableOn.
	AvailableOn string
	AvailableAt string

	Sort     string
	Page     int
	PageSize int
}

// Item is a search hit enriched with ranking signals.
type Item struct {
	Resource      *resource.Resource
	HeldBookings  int
	ReviewCount   int
	AverageRating float64
}

type ResourceLister interface {
	List(ctx context.Context, filter resource.Filter) ([]*resource.Resource, int, error)
}

type ConflictChecker interface {
	HasConflict(ctx context.Context, resourceID string, start, end time.Time, excludeID string) (bool, error)
}

type HeldCounter interface {
	CountHeld(ctx context.Context, resourceIDs []string, statuses []booking.Status) (map[string]int, error)
}

type RatingReader interface {
	StatsFor(ctx context.Context, resourceIDs []string) (map[string]review.Stats, error)
}

// Service is the discovery surface over published resources: keyword and
// attribute filters, an optional availability probe, and ranked ordering.
type Service interface {
	Search(ctx context.Context, req SearchRequest) ([]*Item, int, error)
}

type service struct {
	resources ResourceLister
	conflicts ConflictChecker
	held      HeldCounter
	ratings   RatingReader
}

func NewService(resources ResourceLister, conflicts ConflictChecker, held HeldCounter, ratings RatingReader) Service {
	return &service{resources: resources, conflicts: conflicts, held: held, ratings: ratings}
}

func (s *service) Search(ctx context.Context, req SearchRequest) ([]*Item, int, error) {
	sortMode := req.Sort
	if sortMode == "" {
		sortMode = SortRecent
	}
	switch sortMode {
	case SortRecent, SortMostBooked, SortTopRated:
	default:
		return nil, 0, ErrInvalidSort
	}

	probe, err := parseProbe(req.AvailableOn, req.AvailableAt)
	if err != nil {
		return nil, 0, err
	}

	candidates, _, err := s.resources.List(ctx, resource.Filter{
		Keyword:     req.Keyword,
		Category:    req.Category,
		Location:    req.Location,
		MinCapacity: req.MinCapacity,
		Status:      resource.StatusPublished,
		Page:        1,
		PageSize:    scanLimit,
	})
	if err != nil {
		return nil, 0, err
	}

	if probe != nil {
		candidates, err = s.filterAvailable(ctx, candidates, probe)
		if err != nil {
			return nil, 0, err
		}
	}

	items, err := s.enrich(ctx, candidates)
	if err != nil {
		return nil, 0, err
	}

	sortItems(items, sortMode)

	total := len(items)
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start >= total {
		return []*Item{}, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return items[start:end], total, nil
}

type availabilityProbe struct {
	day     time.Time
	minute  int
	hasTime bool
}

func parseProbe(on, at string) (*availabilityProbe, error) {
	if on == "" {
		if at != "" {
			return nil, ErrInvalidDate
		}
		return nil, nil
	}

	day, err := time.ParseInLocation("2006-01-02", on, time.UTC)
	if err != nil {
		return nil, ErrInvalidDate
	}
	p := &availabilityProbe{day: day}

	if at != "" {
		clock, err := time.Parse("15:04", at)
		if err != nil {
			return nil, ErrInvalidTime
		}
		p.minute = clock.Hour()*60 + clock.Minute()
		p.hasTime = true
	}
	return p, nil
}

// filterAvailable keeps resources that are open for the probe and whose probe
// window is not already taken. Rules that fail to parse drop the resource.
func (s *service) filterAvailable(ctx context.Context, candidates []*resource.Resource, probe *availabilityProbe) ([]*resource.Resource, error) {
	var kept []*resource.Resource
	for _, res := range candidates {
		schedule, err := availability.ParseRules(res.AvailabilityRules)
		if err != nil {
			continue
		}

		var startMinute, endMinute int
		if probe.hasTime {
			startMinute = probe.minute
			endMinute = startMinute + int(probeSlot.Minutes())
		} else {
			windows := schedule.WindowsFor(probe.day.Weekday())
			if len(windows) == 0 {
				continue
			}
			// Probe the earliest window, clamped to its end so a window
			// shorter than probeSlot still counts for the whole day.
			startMinute = windows[0].Start
			endMinute = startMinute + int(probeSlot.Minutes())
			if endMinute > windows[0].End {
				endMinute = windows[0].End
			}
		}

		start := probe.day.Add(time.Duration(startMinute) * time.Minute)
		end := probe.day.Add(time.Duration(endMinute) * time.Minute)
		if !schedule.IsWithin(start, end) {
			continue
		}

		taken, err := s.conflicts.HasConflict(ctx, res.ID, start, end, "")
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}
		kept = append(kept, res)
	}
	return kept, nil
}

func (s *service) enrich(ctx context.Context, candidates []*resource.Resource) ([]*Item, error) {
	ids := make([]string, len(candidates))
	for i, res := range candidates {
		ids[i] = res.ID
	}

	held, err := s.held.CountHeld(ctx, ids, []booking.Status{booking.StatusApproved, booking.StatusCompleted})
	if err != nil {
		return nil, err
	}
	stats, err := s.ratings.StatsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]*Item, len(candidates))
	for i, res := range candidates {
		item := &Item{Resource: res, HeldBookings: held[res.ID]}
		if st, ok := stats[res.ID]; ok {
			item.ReviewCount = st.Count
			item.AverageRating = st.Average
		}
		items[i] = item
	}
	return items, nil
}

// sortItems orders the hits for the chosen mode. Ties always fall back to the
// resource id so pagination is stable.
func sortItems(items []*Item, mode string) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch mode {
		case SortMostBooked:
			if a.HeldBookings != b.HeldBookings {
				return a.HeldBookings > b.HeldBookings
			}
		case SortTopRated:
			if a.AverageRating != b.AverageRating {
				return a.AverageRating > b.AverageRating
			}
			if a.ReviewCount != b.ReviewCount {
				return a.ReviewCount > b.ReviewCount
			}
		default:
			if !a.Resource.CreatedAt.Equal(b.Resource.CreatedAt) {
				return a.Resource.CreatedAt.After(b.Resource.CreatedAt)
			}
		}
		return a.Resource.ID < b.Resource.ID
	})
}
