package chatbot

import (
	"context"
	"errors"
	"sync/atomic"

	"TapaalTracker/internal/auth"
	"TapaalTracker/internal/department"
	"TapaalTracker/internal/mail"
)

var errStore = errors.New("server selection timeout")

// fakeMails serves fixed counts keyed by direction and status ("" is the total).
type fakeMails struct {
	calls   atomic.Int64
	counts  map[mail.Direction]map[mail.Status]int64
	byDept  map[mail.Direction]map[string]int64
	recent  map[mail.Direction][]mail.Mail
	tracked map[string]*mail.Mail
	fail    bool
}

func (f *fakeMails) Count(_ context.Context, d mail.Direction, status mail.Status) (int64, error) {
	f.calls.Add(1)
	if f.fail {
		return 0, errStore
	}
	return f.counts[d][status], nil
}

func (f *fakeMails) CountByDepartment(_ context.Context, d mail.Direction) (map[string]int64, error) {
	f.calls.Add(1)
	if f.fail {
		return nil, errStore
	}
	return f.byDept[d], nil
}

func (f *fakeMails) Recent(_ context.Context, d mail.Direction, n int64) ([]mail.Mail, error) {
	f.calls.Add(1)
	if f.fail {
		return nil, errStore
	}
	list := f.recent[d]
	if int64(len(list)) > n {
		list = list[:n]
	}
	return list, nil
}

func (f *fakeMails) FindByTrackingCode(_ context.Context, code string) (*mail.Mail, error) {
	f.calls.Add(1)
	if f.fail {
		return nil, errStore
	}
	return f.tracked[code], nil
}

type fakeUsers struct {
	calls  atomic.Int64
	total  int64
	active int64
	recent []auth.User
	fail   bool
}

func (f *fakeUsers) CountUsers(_ context.Context, activeOnly bool) (int64, error) {
	f.calls.Add(1)
	if f.fail {
		return 0, errStore
	}
	if activeOnly {
		return f.active, nil
	}
	return f.total, nil
}

func (f *fakeUsers) RecentUsers(context.Context, int64) ([]auth.User, error) {
	f.calls.Add(1)
	if f.fail {
		return nil, errStore
	}
	return f.recent, nil
}

type fakeDepartments struct {
	calls atomic.Int64
	list  []department.Department
	fail  bool
}

func (f *fakeDepartments) List(context.Context) ([]department.Department, error) {
	f.calls.Add(1)
	if f.fail {
		return nil, errStore
	}
	return f.list, nil
}

func (f *fakeDepartments) Count(context.Context) (int64, error) {
	f.calls.Add(1)
	if f.fail {
		return 0, errStore
	}
	return int64(len(f.list)), nil
}

type fakeGenerator struct {
	calls  atomic.Int64
	prompt string
	text   string
	err    error
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.calls.Add(1)
	f.prompt = prompt
	return f.text, f.err
}

func populatedMails() *fakeMails {
	return &fakeMails{
		counts: map[mail.Direction]map[mail.Status]int64{
			mail.Inward:  {"": 7, mail.StatusPending: 4, mail.StatusDelivered: 3},
			mail.Outward: {"": 5, mail.StatusDraft: 1, mail.StatusSent: 2, mail.StatusDelivered: 2},
		},
		byDept: map[mail.Direction]map[string]int64{
			mail.Inward:  {"Accounts": 5, "Legal": 2},
			mail.Outward: {"Accounts": 1},
		},
		recent: map[mail.Direction][]mail.Mail{
			mail.Inward: {{TrackingCode: "TRK-20250007", Counterpart: "High Court", Department: "Legal", Status: mail.StatusPending, Priority: "high"}},
		},
		tracked: map[string]*mail.Mail{},
	}
}
