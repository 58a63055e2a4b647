package orders

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/orderdesk/orderdesk/internal/client"
	"github.com/orderdesk/orderdesk/internal/database"
	"github.com/orderdesk/orderdesk/internal/models"
	"github.com/orderdesk/orderdesk/internal/session"
)

func validForm() Form {
	return Form{
		Customer: "Acme Corp",
		Category: "c1",
		Date:     "2026-03-01",
		Amount:   "42.50",
		Source:   "Website",
		Geo:      "New York, US",
	}
}

func TestForm_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Form)
		want   FieldErrors
	}{
		{
			name:   "empty customer",
			mutate: func(f *Form) { f.Customer = "" },
			want:   FieldErrors{"customer": "Customer name is required"},
		},
		{
			name:   "whitespace customer",
			mutate: func(f *Form) { f.Customer = "   " },
			want:   FieldErrors{"customer": "Customer name is required"},
		},
		{
			name:   "short customer",
			mutate: func(f *Form) { f.Customer = "A" },
			want:   FieldErrors{"customer": "Name must be at least 2 characters"},
		},
		{
			name:   "missing category",
			mutate: func(f *Form) { f.Category = "" },
			want:   FieldErrors{"category": "Category is required"},
		},
		{
			name:   "missing date",
			mutate: func(f *Form) { f.Date = "" },
			want:   FieldErrors{"date": "Order date is required"},
		},
		{
			name:   "malformed date",
			mutate: func(f *Form) { f.Date = "03/01/2026" },
			want:   FieldErrors{"date": "Order date must be a valid date"},
		},
		{
			name:   "missing amount",
			mutate: func(f *Form) { f.Amount = "" },
			want:   FieldErrors{"amount": "Amount is required"},
		},
		{
			name:   "non-numeric amount",
			mutate: func(f *Form) { f.Amount = "twelve" },
			want:   FieldErrors{"amount": "Amount must be a number"},
		},
		{
			name:   "NaN amount",
			mutate: func(f *Form) { f.Amount = "NaN" },
			want:   FieldErrors{"amount": "Amount must be a number"},
		},
		{
			name:   "amount below minimum",
			mutate: func(f *Form) { f.Amount = "0.99" },
			want:   FieldErrors{"amount": "Amount must be more than 1"},
		},
		{
			name:   "short source and geo",
			mutate: func(f *Form) { f.Source = "W"; f.Geo = "X" },
			want: FieldErrors{
				"source": "Source must be at least 2 characters",
				"geo":    "Location must be at least 2 characters",
			},
		},
		{
			name:   "missing source and geo",
			mutate: func(f *Form) { f.Source = ""; f.Geo = "" },
			want: FieldErrors{
				"source": "Source is required",
				"geo":    "Geographic location is required",
			},
		},
	}

	validate := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			_, err := form.Validate(validate)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.want, verr.Fields)
		})
	}
}

func TestForm_ValidateConvertsAmount(t *testing.T) {
	form := validForm()
	form.Amount = " 1 "
	form.Customer = "  Acme Corp "

	req, err := form.Validate(NewValidator())
	require.NoError(t, err)
	assert.Equal(t, client.CreateOrderRequest{
		Customer: "Acme Corp",
		Category: "c1",
		Date:     "2026-03-01",
		Source:   "Website",
		Geo:      "New York, US",
		Amount:   1,
	}, req)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Fields: FieldErrors{"geo": "Geographic location is required", "amount": "Amount is required"}}
	assert.Equal(t, "invalid order: amount: Amount is required; geo: Geographic location is required", err.Error())
}

// mockOrderAPI records orders and serves fixed categories
type mockOrderAPI struct {
	categories []client.Category
	created    []client.CreateOrderRequest
	tokens     []string
	err        error
}

func (m *mockOrderAPI) ListCategories(ctx context.Context, token string) ([]client.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.categories, nil
}

func (m *mockOrderAPI) CreateOrder(ctx context.Context, token string, req client.CreateOrderRequest) (*client.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = append(m.created, req)
	m.tokens = append(m.tokens, token)
	return &client.Order{ID: "remote-" + req.Customer}, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "orders.sqlite"), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	t.Cleanup(func() { database.Close(db) })
	return db
}

var alice = session.Identity{ID: "u-alice", Email: "alice@example.com", Role: session.RoleUser}

func TestService_Submit(t *testing.T) {
	api := &mockOrderAPI{}
	svc := NewService(api, newTestDB(t), zerolog.Nop())

	sub, err := svc.Submit(context.Background(), "tok", alice, validForm())
	require.NoError(t, err)

	require.Len(t, api.created, 1)
	assert.Equal(t, 42.5, api.created[0].Amount)
	assert.Equal(t, []string{"tok"}, api.tokens)

	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, "remote-Acme Corp", sub.RemoteID)
	assert.Equal(t, "u-alice", sub.UserID)
	assert.Equal(t, "alice@example.com", sub.UserEmail)
}

func TestService_SubmitInvalidSendsNothing(t *testing.T) {
	api := &mockOrderAPI{}
	svc := NewService(api, newTestDB(t), zerolog.Nop())

	form := validForm()
	form.Amount = "0"
	_, err := svc.Submit(context.Background(), "tok", alice, form)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, api.created)
}

func TestService_SubmitBackendFailure(t *testing.T) {
	apiErr := &client.APIError{StatusCode: 400, Message: "Category not found"}
	db := newTestDB(t)
	svc := NewService(&mockOrderAPI{err: apiErr}, db, zerolog.Nop())

	_, err := svc.Submit(context.Background(), "tok", alice, validForm())
	assert.Same(t, apiErr, err)

	var count int64
	require.NoError(t, db.Model(&models.Submission{}).Count(&count).Error)
	assert.Zero(t, count, "rejected orders are not recorded")
}

func TestService_Recent(t *testing.T) {
	svc := NewService(&mockOrderAPI{}, newTestDB(t), zerolog.Nop())
	bob := session.Identity{ID: "u-bob", Email: "bob@example.com", Role: session.RoleAdmin}

	for _, c := range []struct {
		who      session.Identity
		customer string
	}{
		{alice, "First"},
		{bob, "Second"},
		{alice, "Third"},
	} {
		form := validForm()
		form.Customer = c.customer
		_, err := svc.Submit(context.Background(), "tok", c.who, form)
		require.NoError(t, err)
	}

	mine, err := svc.Recent(context.Background(), alice.ID, 10)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "Third", mine[0].Customer)
	assert.Equal(t, "First", mine[1].Customer)

	all, err := svc.Recent(context.Background(), "", 2)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Third", all[0].Customer)
	assert.Equal(t, "Second", all[1].Customer)
}

func TestService_Categories(t *testing.T) {
	api := &mockOrderAPI{categories: []client.Category{{ID: "c1", Name: "Books"}}}
	svc := NewService(api, newTestDB(t), zerolog.Nop())

	categories, err := svc.Categories(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, api.categories, categories)
}
