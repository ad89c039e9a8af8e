package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"TapaalTracker/internal/cache"
	"TapaalTracker/internal/config"
	"TapaalTracker/internal/mail"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type fakeMails struct {
	counts map[mail.Direction]map[mail.Status]int64
	failOn mail.Status
}

func (f *fakeMails) Count(_ context.Context, d mail.Direction, status mail.Status) (int64, error) {
	if status != "" && status == f.failOn {
		return 0, errors.New("count timeout")
	}
	if status == "" {
		var total int64
		for _, n := range f.counts[d] {
			total += n
		}
		return total, nil
	}
	return f.counts[d][status], nil
}

func (f *fakeMails) Recent(_ context.Context, d mail.Direction, n int64) ([]mail.Mail, error) {
	return []mail.Mail{{Direction: d, TrackingCode: "TRK-20250001"}}, nil
}

type fakeUsers struct{ err error }

func (f fakeUsers) CountUsers(_ context.Context, activeOnly bool) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	if activeOnly {
		return 3, nil
	}
	return 5, nil
}

type fakeDepartments int64

func (f fakeDepartments) Count(context.Context) (int64, error) { return int64(f), nil }

func disabledCache() *cache.Cache {
	return cache.NewCache(nil, &config.RedisConfig{CacheTTL: time.Minute}, zap.NewNop())
}

func TestStats(t *testing.T) {
	mails := &fakeMails{counts: map[mail.Direction]map[mail.Status]int64{
		mail.Inward:  {mail.StatusPending: 4, mail.StatusDelivered: 2},
		mail.Outward: {mail.StatusDraft: 1, mail.StatusSent: 3},
	}}
	svc := NewDashboardService(mails, fakeUsers{}, fakeDepartments(6), disabledCache(), zap.NewNop())

	st := svc.Stats(context.Background())
	if st.TotalInward != 6 || st.TotalOutward != 4 || st.TotalMails != st.TotalInward+st.TotalOutward {
		t.Errorf("mail totals = %d/%d/%d", st.TotalInward, st.TotalOutward, st.TotalMails)
	}
	if st.TotalUsers != 5 || st.ActiveUsers != 3 || st.TotalDepartments != 6 {
		t.Errorf("users=%d active=%d departments=%d", st.TotalUsers, st.ActiveUsers, st.TotalDepartments)
	}
	if st.Inward[mail.StatusPending] != 4 || st.Outward[mail.StatusSent] != 3 {
		t.Errorf("per-status = %v %v", st.Inward, st.Outward)
	}
	if len(st.RecentInward) != 1 || len(st.RecentOutward) != 1 {
		t.Errorf("recent = %d/%d", len(st.RecentInward), len(st.RecentOutward))
	}
}

func TestStatsDegradesFailedCountsToZero(t *testing.T) {
	mails := &fakeMails{
		counts: map[mail.Direction]map[mail.Status]int64{mail.Inward: {mail.StatusPending: 4}},
		failOn: mail.StatusPending,
	}
	svc := NewDashboardService(mails, fakeUsers{err: errors.New("users down")}, fakeDepartments(2), disabledCache(), zap.NewNop())

	st := svc.Stats(context.Background())
	if st.TotalUsers != 0 || st.ActiveUsers != 0 {
		t.Errorf("failed user counts = %d/%d, want 0", st.TotalUsers, st.ActiveUsers)
	}
	if st.Inward[mail.StatusPending] != 0 {
		t.Errorf("failed status count = %d, want 0", st.Inward[mail.StatusPending])
	}
	if st.TotalInward != 4 || st.TotalDepartments != 2 {
		t.Errorf("healthy counts lost: inward=%d departments=%d", st.TotalInward, st.TotalDepartments)
	}
}

func TestStatsHandler(t *testing.T) {
	svc := NewDashboardService(&fakeMails{}, fakeUsers{}, fakeDepartments(0), disabledCache(), zap.NewNop())
	h := NewDashboardHandler(svc)

	e := echo.New()
	rec := httptest.NewRecorder()
	if err := h.Stats(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil), rec)); err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"total_mails":0`) {
		t.Errorf("response = %d %s", rec.Code, rec.Body.String())
	}
}
