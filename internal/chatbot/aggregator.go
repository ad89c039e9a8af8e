package chatbot

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"TapaalTracker/internal/auth"
	"TapaalTracker/internal/department"
	"TapaalTracker/internal/mail"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	recentUsers        = 10
	recentMailsReport  = 5
	recentMailsPrompt  = 3
	noUsersMessage     = "No users found in the system."
	noDepartmentsReply = "No departments found."
)

const greetingMessage = "Hello! I am the Tapaal assistant. Ask me about inward or outward mail, " +
	"departments, users or overall statistics, or give me a tracking code such as TRK-20250001."

const helpMessage = `Here is what I can help with:
- "show users" lists user accounts
- "inward mails" summarises received mail
- "outward mails" summarises dispatched mail
- "departments" shows mail activity per department
- "stats" or "how many" gives system-wide totals
- "where is TRK-20250001" looks up a tracking code
Anything else is answered from the current system figures.`

type MailSource interface {
	Count(ctx context.Context, d mail.Direction, status mail.Status) (int64, error)
	CountByDepartment(ctx context.Context, d mail.Direction) (map[string]int64, error)
	Recent(ctx context.Context, d mail.Direction, n int64) ([]mail.Mail, error)
	FindByTrackingCode(ctx context.Context, code string) (*mail.Mail, error)
}

type UserSource interface {
	CountUsers(ctx context.Context, activeOnly bool) (int64, error)
	RecentUsers(ctx context.Context, limit int64) ([]auth.User, error)
}

type DepartmentSource interface {
	List(ctx context.Context) ([]department.Department, error)
	Count(ctx context.Context) (int64, error)
}

// DepartmentActivity is the mail volume recorded against one department.
type DepartmentActivity struct {
	Name    string
	Inward  int64
	Outward int64
}

// Snapshot is the system-wide context handed to the model for open questions.
type Snapshot struct {
	TotalInward      int64
	TotalOutward     int64
	TotalMails       int64
	TotalUsers       int64
	ActiveUsers      int64
	TotalDepartments int64
	Inward           map[mail.Status]int64
	Outward          map[mail.Status]int64
	Departments      []DepartmentActivity
	RecentInward     []mail.Mail
	RecentOutward    []mail.Mail

	// TrackingCode is set when the message mentioned one; Tracked is nil if no
	// record carries it.
	TrackingCode string
	Tracked      *mail.Mail
}

// Aggregator runs the read-only queries behind each intent. Every failed read is
// logged and treated as zero or empty, so it always produces an answer.
type Aggregator struct {
	mails       MailSource
	users       UserSource
	departments DepartmentSource
	logger      *zap.Logger
}

func NewAggregator(mails MailSource, users UserSource, departments DepartmentSource, logger *zap.Logger) *Aggregator {
	return &Aggregator{mails: mails, users: users, departments: departments, logger: logger.Named("aggregator")}
}

// Report renders the deterministic answer for a classified intent. It must not be
// called with IntentOpen.
func (a *Aggregator) Report(ctx context.Context, intent Intent) string {
	switch intent {
	case IntentGreeting:
		return greetingMessage
	case IntentHelp:
		return helpMessage
	case IntentUsers:
		return a.usersReport(ctx)
	case IntentInward:
		return a.mailReport(ctx, mail.Inward)
	case IntentOutward:
		return a.mailReport(ctx, mail.Outward)
	case IntentDepartments:
		return a.departmentsReport(ctx)
	case IntentStatistics:
		return a.statisticsReport(ctx)
	}
	return helpMessage
}

func (a *Aggregator) warn(what string, err error) {
	a.logger.Warn("chat aggregation failed, using empty result", zap.String("query", what), zap.Error(err))
}

// count runs fn inside g and stores its result in dst, leaving zero on failure.
func (a *Aggregator) count(ctx context.Context, g *errgroup.Group, what string, dst *int64, fn func(context.Context) (int64, error)) {
	g.Go(func() error {
		n, err := fn(ctx)
		if err != nil {
			a.warn(what, err)
			return nil
		}
		*dst = n
		return nil
	})
}

func (a *Aggregator) mailCount(d mail.Direction, status mail.Status) func(context.Context) (int64, error) {
	return func(ctx context.Context) (int64, error) { return a.mails.Count(ctx, d, status) }
}

func (a *Aggregator) userCount(activeOnly bool) func(context.Context) (int64, error) {
	return func(ctx context.Context) (int64, error) { return a.users.CountUsers(ctx, activeOnly) }
}

// statusCounts schedules one count per lifecycle status of d.
func (a *Aggregator) statusCounts(ctx context.Context, g *errgroup.Group, d mail.Direction) []int64 {
	statuses := d.Statuses()
	counts := make([]int64, len(statuses))
	for i, st := range statuses {
		a.count(ctx, g, string(d)+" "+string(st), &counts[i], a.mailCount(d, st))
	}
	return counts
}

func toStatusMap(d mail.Direction, counts []int64) map[mail.Status]int64 {
	m := make(map[mail.Status]int64, len(counts))
	for i, st := range d.Statuses() {
		m[st] = counts[i]
	}
	return m
}

func (a *Aggregator) recent(ctx context.Context, g *errgroup.Group, d mail.Direction, n int64, dst *[]mail.Mail) {
	g.Go(func() error {
		mails, err := a.mails.Recent(ctx, d, n)
		if err != nil {
			a.warn("recent "+string(d), err)
			return nil
		}
		*dst = mails
		return nil
	})
}

func (a *Aggregator) usersReport(ctx context.Context) string {
	var (
		total, active int64
		users         []auth.User
	)
	g := new(errgroup.Group)
	a.count(ctx, g, "users", &total, a.userCount(false))
	a.count(ctx, g, "active users", &active, a.userCount(true))
	g.Go(func() error {
		list, err := a.users.RecentUsers(ctx, recentUsers)
		if err != nil {
			a.warn("recent users", err)
			return nil
		}
		users = list
		return nil
	})
	_ = g.Wait()

	if total == 0 && len(users) == 0 {
		return noUsersMessage
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Users: %d total, %d active.\n", total, active)
	if len(users) > 0 {
		b.WriteString("Most recent users:\n")
		for _, u := range users {
			fmt.Fprintf(&b, "- %s (%s), %s", u.Name, u.Email, u.Role)
			if u.Department != "" {
				fmt.Fprintf(&b, ", %s", u.Department)
			}
			if !u.Active {
				b.WriteString(", inactive")
			}
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *Aggregator) mailReport(ctx context.Context, d mail.Direction) string {
	var (
		total  int64
		recent []mail.Mail
	)
	g := new(errgroup.Group)
	a.count(ctx, g, string(d)+" total", &total, a.mailCount(d, ""))
	counts := a.statusCounts(ctx, g, d)
	a.recent(ctx, g, d, recentMailsReport, &recent)
	_ = g.Wait()

	if total == 0 && len(recent) == 0 {
		return fmt.Sprintf("No %s mails found.", d)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s mails: %d total.\n", d.Label(), total)
	for i, st := range d.Statuses() {
		fmt.Fprintf(&b, "- %s: %d\n", st, counts[i])
	}
	if len(recent) > 0 {
		b.WriteString("Most recent:\n")
		for _, m := range recent {
			fmt.Fprintf(&b, "- %s | %s | %s | %s | %s\n", m.TrackingCode, m.Counterpart, m.Department, m.Status, m.Priority)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *Aggregator) departmentActivity(ctx context.Context) []DepartmentActivity {
	var (
		departments     []department.Department
		inward, outward map[string]int64
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		list, err := a.departments.List(ctx)
		if err != nil {
			a.warn("departments", err)
			return nil
		}
		departments = list
		return nil
	})
	byDept := func(d mail.Direction, dst *map[string]int64) {
		g.Go(func() error {
			counts, err := a.mails.CountByDepartment(ctx, d)
			if err != nil {
				a.warn(string(d)+" by department", err)
				return nil
			}
			*dst = counts
			return nil
		})
	}
	byDept(mail.Inward, &inward)
	byDept(mail.Outward, &outward)
	_ = g.Wait()

	activity := make([]DepartmentActivity, 0, len(departments))
	for _, dep := range departments {
		activity = append(activity, DepartmentActivity{
			Name:    strings.ReplaceAll(dep.Name, `"`, ""),
			Inward:  inward[dep.Name],
			Outward: outward[dep.Name],
		})
	}
	sort.SliceStable(activity, func(i, j int) bool { return activity[i].Name < activity[j].Name })
	return activity
}

func (a *Aggregator) departmentsReport(ctx context.Context) string {
	activity := a.departmentActivity(ctx)
	if len(activity) == 0 {
		return noDepartmentsReply
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Departments: %d.\n", len(activity))
	for _, d := range activity {
		fmt.Fprintf(&b, "- %s: %d inward, %d outward\n", d.Name, d.Inward, d.Outward)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *Aggregator) statisticsReport(ctx context.Context) string {
	s := a.counts(ctx)
	var b strings.Builder
	b.WriteString("System statistics:\n")
	fmt.Fprintf(&b, "- Total mails: %d (%d inward, %d outward)\n", s.TotalMails, s.TotalInward, s.TotalOutward)
	for _, d := range mail.Directions {
		byStatus := s.Inward
		if d == mail.Outward {
			byStatus = s.Outward
		}
		parts := make([]string, 0, len(d.Statuses()))
		for _, st := range d.Statuses() {
			parts = append(parts, fmt.Sprintf("%d %s", byStatus[st], st))
		}
		fmt.Fprintf(&b, "- %s: %s\n", d.Label(), strings.Join(parts, ", "))
	}
	fmt.Fprintf(&b, "- Users: %d (%d active)\n", s.TotalUsers, s.ActiveUsers)
	fmt.Fprintf(&b, "- Departments: %d", s.TotalDepartments)
	return b.String()
}

// counts fills the numeric part of a Snapshot.
func (a *Aggregator) counts(ctx context.Context) *Snapshot {
	s := &Snapshot{}
	g := new(errgroup.Group)
	a.count(ctx, g, "inward total", &s.TotalInward, a.mailCount(mail.Inward, ""))
	a.count(ctx, g, "outward total", &s.TotalOutward, a.mailCount(mail.Outward, ""))
	a.count(ctx, g, "users", &s.TotalUsers, a.userCount(false))
	a.count(ctx, g, "active users", &s.ActiveUsers, a.userCount(true))
	a.count(ctx, g, "departments", &s.TotalDepartments, a.departments.Count)
	inward := a.statusCounts(ctx, g, mail.Inward)
	outward := a.statusCounts(ctx, g, mail.Outward)
	_ = g.Wait()

	s.Inward = toStatusMap(mail.Inward, inward)
	s.Outward = toStatusMap(mail.Outward, outward)
	s.TotalMails = s.TotalInward + s.TotalOutward
	return s
}

// Snapshot gathers the open-question context: the standard counts, department
// activity, recent mail, and the record behind any tracking code in message.
func (a *Aggregator) Snapshot(ctx context.Context, message string) *Snapshot {
	var (
		s                   *Snapshot
		activity            []DepartmentActivity
		recentIn, recentOut []mail.Mail
		tracked             *mail.Mail
		code                = mail.FindTrackingCode(message)
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		s = a.counts(ctx)
		return nil
	})
	g.Go(func() error {
		activity = a.departmentActivity(ctx)
		return nil
	})
	a.recent(ctx, g, mail.Inward, recentMailsPrompt, &recentIn)
	a.recent(ctx, g, mail.Outward, recentMailsPrompt, &recentOut)
	if code != "" {
		g.Go(func() error {
			m, err := a.mails.FindByTrackingCode(ctx, code)
			if err != nil {
				a.warn("tracking code", err)
				return nil
			}
			tracked = m
			return nil
		})
	}
	_ = g.Wait()

	s.Departments = activity
	s.RecentInward = recentIn
	s.RecentOutward = recentOut
	s.TrackingCode = code
	s.Tracked = tracked
	return s
}
