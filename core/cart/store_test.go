package cart

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

// memStorage is an in-memory Storage double recording every save.
type memStorage struct {
	state    *State
	loadErr  error
	saveErr  error
	saveCnt  int
	lastSave State
}

func (s *memStorage) Load() (State, error) {
	if s.loadErr != nil {
		return State{}, s.loadErr
	}
	if s.state == nil {
		return State{}, ErrNoState
	}
	return *s.state, nil
}

func (s *memStorage) Save(state State) error {
	s.saveCnt++
	s.lastSave = state
	if s.saveErr != nil {
		return s.saveErr
	}
	s.state = &state
	return nil
}

type testLogger struct {
	errCnt int
}

func (l *testLogger) Debug(msg string, args ...interface{}) {}
func (l *testLogger) Info(msg string, args ...interface{})  {}
func (l *testLogger) Warn(msg string, args ...interface{})  {}
func (l *testLogger) Error(msg string, args ...interface{}) { l.errCnt++ }
func (l *testLogger) Fatal(msg string, args ...interface{}) {}

func newTestStore(t *testing.T, persisted *State) (*Store, *memStorage, *testLogger) {
	t.Helper()
	storage := &memStorage{state: persisted}
	logger := new(testLogger)
	return NewStore(storage, logger), storage, logger
}

func newItem(courseID string, price float64) NewItem {
	return NewItem{
		CourseID:       courseID,
		Slug:           "course-" + courseID,
		Title:          "Course " + courseID,
		InstructorName: "Jane Doe",
		Price:          price,
	}
}

// checkTotals asserts the totals consistency invariant against the current state.
func checkTotals(t *testing.T, state State) {
	t.Helper()
	var subtotal float64
	for _, item := range state.Items {
		subtotal += item.Price
	}
	if state.Subtotal != subtotal {
		t.Errorf("subtotal = %v; want %v", state.Subtotal, subtotal)
	}
	want := subtotal
	if state.Discount != nil {
		want = subtotal - *state.Discount
		if want < 0 {
			want = 0
		}
	}
	if state.Total != want {
		t.Errorf("total = %v; want %v", state.Total, want)
	}
}

func TestStore_AddItemIsIdempotent(t *testing.T) {
	store, storage, _ := newTestStore(t, nil)

	store.AddItem(newItem("c1", 100))
	store.AddItem(newItem("c1", 100))

	state := store.State()
	if len(state.Items) != 1 {
		t.Fatalf("items = %d; want 1", len(state.Items))
	}
	if state.Subtotal != 100 || state.Total != 100 {
		t.Errorf("subtotal/total = %v/%v; want 100/100", state.Subtotal, state.Total)
	}
	checkTotals(t, state)

	// duplicate add must not re-persist
	if storage.saveCnt != 1 {
		t.Errorf("saveCnt = %d; want 1", storage.saveCnt)
	}
}

func TestStore_AddItemStampsAddedAt(t *testing.T) {
	now := time.Date(2021, time.March, 14, 15, 9, 26, 0, time.UTC)
	NowFunc = func() time.Time { return now }
	defer func() { NowFunc = time.Now }()

	store, _, _ := newTestStore(t, nil)
	store.AddItem(newItem("c1", 100))

	if got := store.State().Items[0].AddedAt; !got.Equal(now) {
		t.Errorf("addedAt = %v; want %v", got, now)
	}
}

func TestStore_RemoveAbsentItemIsNoop(t *testing.T) {
	store, storage, _ := newTestStore(t, nil)
	store.AddItem(newItem("c1", 100))
	before := store.State()
	savesBefore := storage.saveCnt

	store.RemoveItem("nope")

	after := store.State()
	assert.Equal(t, before, after)
	if storage.saveCnt != savesBefore {
		t.Errorf("saveCnt = %d; want %d", storage.saveCnt, savesBefore)
	}
}

func TestStore_ClearResetsFully(t *testing.T) {
	discount := 50.0
	store, storage, _ := newTestStore(t, nil)
	store.AddItem(newItem("c1", 100))
	store.ApplyCoupon("WELCOME", &discount)

	store.Clear()

	state := store.State()
	if len(state.Items) != 0 {
		t.Errorf("items = %d; want 0", len(state.Items))
	}
	if state.CouponCode != "" || state.Discount != nil {
		t.Errorf("coupon not cleared: code=%q discount=%v", state.CouponCode, state.Discount)
	}
	if state.Subtotal != 0 || state.Total != 0 {
		t.Errorf("subtotal/total = %v/%v; want 0/0", state.Subtotal, state.Total)
	}

	// the storage entry continues to exist, holding the empty state
	if storage.state == nil {
		t.Fatal("storage entry removed; want empty state persisted")
	}
	if len(storage.state.Items) != 0 || storage.state.Total != 0 {
		t.Errorf("persisted state not empty: %+v", storage.state)
	}
}

func TestStore_RehydrationRecomputesTotals(t *testing.T) {
	// a corrupted persisted total must not be trusted
	persisted := &State{
		Items: []Item{{CourseID: "c1", Price: 100}},
		Total: 999,
	}
	store, _, _ := newTestStore(t, persisted)

	state := store.State()
	if state.Subtotal != 100 || state.Total != 100 {
		t.Errorf("subtotal/total = %v/%v; want 100/100", state.Subtotal, state.Total)
	}
}

func TestStore_RehydrationSeedsCoupon(t *testing.T) {
	discount := 30.0
	persisted := &State{
		Items:      []Item{{CourseID: "c1", Price: 100}},
		CouponCode: "SAVE30",
		Discount:   &discount,
	}
	store, _, _ := newTestStore(t, persisted)

	state := store.State()
	if state.CouponCode != "SAVE30" {
		t.Errorf("couponCode = %q; want SAVE30", state.CouponCode)
	}
	if state.Total != 70 {
		t.Errorf("total = %v; want 70", state.Total)
	}
}

func TestStore_LoadFailureStartsEmpty(t *testing.T) {
	storage := &memStorage{loadErr: ErrNoState}
	store := NewStore(storage, new(testLogger))

	state := store.State()
	if len(state.Items) != 0 || state.Subtotal != 0 || state.Total != 0 {
		t.Errorf("state not empty: %+v", state)
	}
}

func TestStore_CouponRemovalRestoresTotals(t *testing.T) {
	discount := 50.0
	store, _, _ := newTestStore(t, nil)
	store.AddItem(newItem("c1", 120))
	store.AddItem(newItem("c2", 80))
	store.ApplyCoupon("SAVE50", &discount)
	if got := store.State().Total; got != 150 {
		t.Fatalf("total = %v; want 150", got)
	}

	store.RemoveCoupon()

	state := store.State()
	if state.Total != 200 {
		t.Errorf("total = %v; want 200", state.Total)
	}
	if state.CouponCode != "" || state.Discount != nil {
		t.Errorf("coupon not cleared: code=%q discount=%v", state.CouponCode, state.Discount)
	}
}

func TestStore_ApplyCouponWithoutAmount(t *testing.T) {
	// coupon recorded but no amount yet resolved
	store, _, _ := newTestStore(t, nil)
	store.AddItem(newItem("c1", 100))
	store.ApplyCoupon("PENDING", nil)

	state := store.State()
	if state.CouponCode != "PENDING" {
		t.Errorf("couponCode = %q; want PENDING", state.CouponCode)
	}
	if state.Discount != nil {
		t.Errorf("discount = %v; want nil", state.Discount)
	}
	if state.Total != 100 {
		t.Errorf("total = %v; want 100", state.Total)
	}
}

func TestStore_EndToEnd(t *testing.T) {
	store, _, _ := newTestStore(t, nil)

	store.AddItem(newItem("a", 100))
	store.AddItem(newItem("b", 250))
	state := store.State()
	if state.Subtotal != 350 || state.Total != 350 {
		t.Fatalf("subtotal/total = %v/%v; want 350/350", state.Subtotal, state.Total)
	}
	checkTotals(t, state)

	discount := 50.0
	store.ApplyCoupon("SAVE50", &discount)
	if got := store.State().Total; got != 300 {
		t.Fatalf("total = %v; want 300", got)
	}
	checkTotals(t, store.State())

	// discount stays applied after removal; floor at 0 never triggered
	store.RemoveItem("a")
	state = store.State()
	if state.Subtotal != 250 || state.Total != 200 {
		t.Fatalf("subtotal/total = %v/%v; want 250/200", state.Subtotal, state.Total)
	}
	checkTotals(t, state)

	// floor applied, not negative
	bigDiscount := 999.0
	store.ApplyCoupon("SAVE999", &bigDiscount)
	if got := store.State().Total; got != 0 {
		t.Fatalf("total = %v; want 0", got)
	}
	checkTotals(t, store.State())
}

func TestStore_SaveFailureIsSwallowed(t *testing.T) {
	storage := &memStorage{saveErr: errors.New("quota exceeded")}
	logger := new(testLogger)
	store := NewStore(storage, logger)

	store.AddItem(newItem("c1", 100))

	// in-memory state remains correct for the session
	state := store.State()
	if len(state.Items) != 1 || state.Total != 100 {
		t.Errorf("state = %+v; want 1 item, total 100", state)
	}
	if logger.errCnt != 1 {
		t.Errorf("errCnt = %d; want 1", logger.errCnt)
	}
}

func TestStore_StateReturnsSnapshot(t *testing.T) {
	store, _, _ := newTestStore(t, nil)
	store.AddItem(newItem("c1", 100))

	state := store.State()
	state.Items[0].Price = 0
	state.Items = append(state.Items, Item{CourseID: "rogue"})

	fresh := store.State()
	if len(fresh.Items) != 1 || fresh.Items[0].Price != 100 {
		t.Errorf("store state mutated through snapshot: %+v", fresh)
	}
}

func TestStore_Reads(t *testing.T) {
	store, _, _ := newTestStore(t, nil)
	store.AddItem(newItem("c1", 100))
	store.AddItem(newItem("c2", 50))

	if got := store.ItemCount(); got != 2 {
		t.Errorf("ItemCount() = %d; want 2", got)
	}
	if !store.Contains("c1") {
		t.Error("Contains(c1) = false; want true")
	}
	if store.Contains("nope") {
		t.Error("Contains(nope) = true; want false")
	}
}
