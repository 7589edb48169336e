package cart

// Service is a thin facade over a Store: a stable function-call surface
// decoupling call sites from the store's internal access pattern, and the seam
// where a networked cart API could be substituted without touching callers.
// It holds no logic, validation or state of its own.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (svc *Service) GetCart() State {
	return svc.store.State()
}

func (svc *Service) AddToCart(candidate NewItem) {
	svc.store.AddItem(candidate)
}

func (svc *Service) RemoveFromCart(courseID string) {
	svc.store.RemoveItem(courseID)
}

func (svc *Service) ClearCart() {
	svc.store.Clear()
}

func (svc *Service) ApplyCoupon(code string, discount *float64) {
	svc.store.ApplyCoupon(code, discount)
}

func (svc *Service) RemoveCoupon() {
	svc.store.RemoveCoupon()
}

func (svc *Service) IsInCart(courseID string) bool {
	return svc.store.Contains(courseID)
}

func (svc *Service) CartItemCount() int {
	return svc.store.ItemCount()
}
