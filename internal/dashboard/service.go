package dashboard

import (
	"context"
	"time"

	"TapaalTracker/internal/cache"
	"TapaalTracker/internal/mail"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	cacheKey    = "dashboard:stats"
	recentMails = 5
)

type MailCounter interface {
	Count(ctx context.Context, d mail.Direction, status mail.Status) (int64, error)
	Recent(ctx context.Context, d mail.Direction, n int64) ([]mail.Mail, error)
}

type UserCounter interface {
	CountUsers(ctx context.Context, activeOnly bool) (int64, error)
}

type DepartmentCounter interface {
	Count(ctx context.Context) (int64, error)
}

type Stats struct {
	TotalUsers       int64                 `json:"total_users"`
	ActiveUsers      int64                 `json:"active_users"`
	TotalDepartments int64                 `json:"total_departments"`
	TotalInward      int64                 `json:"total_inward"`
	TotalOutward     int64                 `json:"total_outward"`
	TotalMails       int64                 `json:"total_mails"`
	Inward           map[mail.Status]int64 `json:"inward"`
	Outward          map[mail.Status]int64 `json:"outward"`
	RecentInward     []mail.Mail           `json:"recent_inward"`
	RecentOutward    []mail.Mail           `json:"recent_outward"`
	GeneratedAt      time.Time             `json:"generated_at"`
}

type DashboardService struct {
	mails       MailCounter
	users       UserCounter
	departments DepartmentCounter
	cache       *cache.Cache
	logger      *zap.Logger
}

func NewDashboardService(mails MailCounter, users UserCounter, departments DepartmentCounter, c *cache.Cache, logger *zap.Logger) *DashboardService {
	return &DashboardService{mails: mails, users: users, departments: departments, cache: c, logger: logger.Named("dashboard")}
}

// Stats gathers every dashboard figure concurrently. A failing read is logged and
// reported as zero (or an empty list) so one bad query never blanks the dashboard.
func (s *DashboardService) Stats(ctx context.Context) *Stats {
	var cached Stats
	if s.cache.Get(ctx, cacheKey, &cached) {
		return &cached
	}

	st := &Stats{
		Inward:        make(map[mail.Status]int64),
		Outward:       make(map[mail.Status]int64),
		RecentInward:  []mail.Mail{},
		RecentOutward: []mail.Mail{},
	}
	g, gctx := errgroup.WithContext(ctx)
	count := func(name string, dst *int64, fn func(context.Context) (int64, error)) {
		g.Go(func() error {
			n, err := fn(gctx)
			if err != nil {
				s.logger.Warn("dashboard count failed", zap.String("count", name), zap.Error(err))
				return nil
			}
			*dst = n
			return nil
		})
	}

	count("users", &st.TotalUsers, func(ctx context.Context) (int64, error) { return s.users.CountUsers(ctx, false) })
	count("active_users", &st.ActiveUsers, func(ctx context.Context) (int64, error) { return s.users.CountUsers(ctx, true) })
	count("departments", &st.TotalDepartments, s.departments.Count)
	count("inward", &st.TotalInward, func(ctx context.Context) (int64, error) { return s.mails.Count(ctx, mail.Inward, "") })
	count("outward", &st.TotalOutward, func(ctx context.Context) (int64, error) { return s.mails.Count(ctx, mail.Outward, "") })

	statusCounts := map[mail.Direction][]int64{}
	for _, d := range mail.Directions {
		statuses := d.Statuses()
		counts := make([]int64, len(statuses))
		statusCounts[d] = counts
		for i, status := range statuses {
			count(string(d)+"_"+string(status), &counts[i], func(ctx context.Context) (int64, error) {
				return s.mails.Count(ctx, d, status)
			})
		}
	}

	recent := func(d mail.Direction, dst *[]mail.Mail) {
		g.Go(func() error {
			mails, err := s.mails.Recent(gctx, d, recentMails)
			if err != nil {
				s.logger.Warn("dashboard recent mails failed", zap.String("direction", string(d)), zap.Error(err))
				return nil
			}
			*dst = mails
			return nil
		})
	}
	recent(mail.Inward, &st.RecentInward)
	recent(mail.Outward, &st.RecentOutward)

	_ = g.Wait()

	for i, status := range mail.Inward.Statuses() {
		st.Inward[status] = statusCounts[mail.Inward][i]
	}
	for i, status := range mail.Outward.Statuses() {
		st.Outward[status] = statusCounts[mail.Outward][i]
	}
	st.TotalMails = st.TotalInward + st.TotalOutward
	st.GeneratedAt = time.Now().UTC()

	s.cache.Set(ctx, cacheKey, st)
	return st
}

// Invalidate drops the cached stats; called after mail writes.
func (s *DashboardService) Invalidate(ctx context.Context) {
	s.cache.Delete(ctx, cacheKey)
}
