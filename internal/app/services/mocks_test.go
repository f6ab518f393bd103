package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/db"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/payment"
)

// ErrMockStorage is injected to simulate a database failure
var ErrMockStorage = errors.New("mock storage error")

var testLogger = zerolog.New(io.Discard)

type enrollmentKey struct {
	courseID int64
	userID   int64
}

// memDB is an in-memory stand-in for the PostgreSQL schema
type memDB struct {
	mu          sync.Mutex
	nextID      int64
	users       map[int64]models.User
	courses     map[int64]models.Course
	lectures    map[int64]models.Lecture
	enrollments map[enrollmentKey]bool
	purchases   map[int64]models.CoursePurchase
	events      map[string]models.GatewayEvent

	// FailOn makes the named store method return the error
	FailOn map[string]error
}

type memSnapshot struct {
	users       map[int64]models.User
	courses     map[int64]models.Course
	lectures    map[int64]models.Lecture
	enrollments map[enrollmentKey]bool
	purchases   map[int64]models.CoursePurchase
}

func newMemDB() *memDB {
	return &memDB{
		users:       map[int64]models.User{},
		courses:     map[int64]models.Course{},
		lectures:    map[int64]models.Lecture{},
		enrollments: map[enrollmentKey]bool{},
		purchases:   map[int64]models.CoursePurchase{},
		events:      map[string]models.GatewayEvent{},
		FailOn:      map[string]error{},
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (m *memDB) snapshot() memSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memSnapshot{
		users:       copyMap(m.users),
		courses:     copyMap(m.courses),
		lectures:    copyMap(m.lectures),
		enrollments: copyMap(m.enrollments),
		purchases:   copyMap(m.purchases),
	}
}

func (m *memDB) restore(s memSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = s.users
	m.courses = s.courses
	m.lectures = s.lectures
	m.enrollments = s.enrollments
	m.purchases = s.purchases
}

func (m *memDB) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memDB) fail(method string) error {
	return m.FailOn[method]
}

// memTx rolls the in-memory state back when fn fails
type memTx struct {
	db    *memDB
	calls int
}

func (t *memTx) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	t.calls++
	snap := t.db.snapshot()
	if err := fn(ctx); err != nil {
		t.db.restore(snap)
		return err
	}
	return nil
}

type memUsers struct{ db *memDB }

func (r memUsers) Create(ctx context.Context, user *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("Users.Create"); err != nil {
		return err
	}
	for _, u := range r.db.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	user.ID = r.db.id()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.db.users[user.ID] = *user
	return nil
}

func (r memUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("Users.GetByID"); err != nil {
		return nil, err
	}
	u, ok := r.db.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

func (r memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

type memCourses struct{ db *memDB }

func (r memCourses) withCreator(c models.Course) *models.Course {
	if u, ok := r.db.users[c.CreatorID]; ok {
		c.Creator = &u
	}
	return &c
}

func (r memCourses) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("Courses.GetByID"); err != nil {
		return nil, err
	}
	c, ok := r.db.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return r.withCreator(c), nil
}

func (r memCourses) ListPublished(ctx context.Context) ([]*models.Course, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*models.Course{}
	for _, c := range r.db.courses {
		if c.IsPublished {
			out = append(out, r.withCreator(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type memLectures struct{ db *memDB }

func (r memLectures) ListByCourse(ctx context.Context, courseID int64) ([]*models.Lecture, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*models.Lecture{}
	for _, l := range r.db.lectures {
		if l.CourseID == courseID {
			l := l
			out = append(out, &l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r memLectures) GetByID(ctx context.Context, courseID, lectureID int64) (*models.Lecture, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	l, ok := r.db.lectures[lectureID]
	if !ok || l.CourseID != courseID {
		return nil, apperrors.ErrLectureNotFound
	}
	return &l, nil
}

func (r memLectures) MarkPreviewFreeByCourse(ctx context.Context, courseID int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("Lectures.MarkPreviewFreeByCourse"); err != nil {
		return 0, err
	}
	var n int64
	for id, l := range r.db.lectures {
		if l.CourseID == courseID && !l.IsPreviewFree {
			l.IsPreviewFree = true
			r.db.lectures[id] = l
			n++
		}
	}
	return n, nil
}

type memEnrollments struct{ db *memDB }

func (r memEnrollments) Add(ctx context.Context, courseID, userID int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("Enrollment.Add"); err != nil {
		return false, err
	}
	key := enrollmentKey{courseID, userID}
	if r.db.enrollments[key] {
		return false, nil
	}
	r.db.enrollments[key] = true
	return true, nil
}

func (r memEnrollments) StudentIDs(ctx context.Context, courseID int64) ([]int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	ids := []int64{}
	for k := range r.db.enrollments {
		if k.courseID == courseID {
			ids = append(ids, k.userID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r memEnrollments) CourseIDs(ctx context.Context, userID int64) ([]int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	ids := []int64{}
	for k := range r.db.enrollments {
		if k.userID == userID {
			ids = append(ids, k.courseID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type memPurchases struct{ db *memDB }

func (r memPurchases) Create(ctx context.Context, p *models.CoursePurchase) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("Purchases.Create"); err != nil {
		return err
	}
	if p.Status == "" {
		p.Status = models.PurchaseStatusPending
	}
	p.ID = r.db.id()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	stored := *p
	stored.Course, stored.User = nil, nil
	r.db.purchases[p.ID] = stored
	return nil
}

func (r memPurchases) SetPaymentID(ctx context.Context, purchaseID int64, paymentID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.purchases[purchaseID]
	if !ok {
		return apperrors.ErrPurchaseNotFound
	}
	p.PaymentID = &paymentID
	r.db.purchases[purchaseID] = p
	return nil
}

func (r memPurchases) GetByPaymentID(ctx context.Context, paymentID string) (*models.CoursePurchase, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.purchases {
		if p.PaymentID != nil && *p.PaymentID == paymentID {
			return &p, nil
		}
	}
	return nil, apperrors.ErrPurchaseNotFound
}

func (r memPurchases) MarkCompleted(ctx context.Context, purchaseID int64, amount float64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("Purchases.MarkCompleted"); err != nil {
		return err
	}
	p, ok := r.db.purchases[purchaseID]
	if !ok {
		return apperrors.ErrPurchaseNotFound
	}
	p.Amount = amount
	p.Status = models.PurchaseStatusCompleted
	r.db.purchases[purchaseID] = p
	return nil
}

func (r memPurchases) ExistsCompleted(ctx context.Context, userID, courseID int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("Purchases.ExistsCompleted"); err != nil {
		return false, err
	}
	for _, p := range r.db.purchases {
		if p.UserID == userID && p.CourseID == courseID && p.IsCompleted() {
			return true, nil
		}
	}
	return false, nil
}

func (r memPurchases) ListCompletedByUser(ctx context.Context, userID int64) ([]*models.CoursePurchase, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*models.CoursePurchase{}
	for _, p := range r.db.purchases {
		if p.UserID != userID || !p.IsCompleted() {
			continue
		}
		p := p
		if c, ok := r.db.courses[p.CourseID]; ok {
			p.Course = &c
		}
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memPurchases) Summary(ctx context.Context, userID int64) (int64, float64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var count int64
	var revenue float64
	for _, p := range r.db.purchases {
		if p.UserID == userID && p.IsCompleted() {
			count++
			revenue += p.Amount
		}
	}
	return count, revenue, nil
}

type memEvents struct{ db *memDB }

func eventKey(provider, eventID string) string {
	return provider + "|" + eventID
}

func (r memEvents) Record(ctx context.Context, event *models.GatewayEvent) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("Events.Record"); err != nil {
		return false, err
	}
	key := eventKey(event.Provider, event.EventID)
	if _, ok := r.db.events[key]; ok {
		return false, nil
	}
	event.ID = r.db.id()
	event.ReceivedAt = time.Now()
	r.db.events[key] = *event
	return true, nil
}

func (r memEvents) UpdateStatus(ctx context.Context, provider, eventID string, status models.GatewayEventStatus, purchaseID *int64, errMsg *string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := eventKey(provider, eventID)
	e, ok := r.db.events[key]
	if !ok {
		return nil
	}
	now := time.Now()
	e.Status, e.PurchaseID, e.Error, e.ProcessedAt = status, purchaseID, errMsg, &now
	r.db.events[key] = e
	return nil
}

// fakeGateway verifies webhooks with the real Stripe signature scheme and
// answers checkout requests locally
type fakeGateway struct {
	*payment.StripeGateway
	mu         sync.Mutex
	CreateFunc func(ctx context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error)
	Requests   []payment.CheckoutRequest
}

const testWebhookSecret = "whsec_services_test"

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		StripeGateway: payment.NewStripeGateway(payment.StripeConfig{
			SecretKey:     "sk_test_services",
			WebhookSecret: testWebhookSecret,
		}, nil, testLogger),
	}
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	g.mu.Lock()
	g.Requests = append(g.Requests, req)
	n := len(g.Requests)
	g.mu.Unlock()

	if g.CreateFunc != nil {
		return g.CreateFunc(ctx, req)
	}
	id := fmt.Sprintf("cs_test_%d", n)
	return &payment.CheckoutSession{ID: id, URL: "https://checkout.stripe.test/pay/" + id}, nil
}
