package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/commerce-ops/opsboard/internal/entity"
	"github.com/commerce-ops/opsboard/internal/service/catalog"
	"github.com/commerce-ops/opsboard/pkg/errorbank"
)

type fakeBackend struct {
	shops     []entity.Shop
	shopsErr  error
	location  *entity.UserLocation
	locErr    error
	lastLocID int64
}

func (f *fakeBackend) ShopsByCategory(ctx context.Context, category string) ([]entity.Shop, error) {
	return f.shops, f.shopsErr
}

func (f *fakeBackend) UpdateShopStatus(ctx context.Context, uid string, isOpen bool) error {
	return nil
}

func (f *fakeBackend) ProductsByCategory(ctx context.Context, category string, page, size int) ([]entity.ProductListing, error) {
	return nil, nil
}

func (f *fakeBackend) Recommendations(ctx context.Context, page, size int) ([]entity.ProductListing, error) {
	return nil, nil
}

func (f *fakeBackend) RemoveRecommendation(ctx context.Context, productID int64) error {
	return nil
}

func (f *fakeBackend) UserLocation(ctx context.Context, locationID int64) (*entity.UserLocation, error) {
	f.lastLocID = locationID
	return f.location, f.locErr
}

func newService(be *fakeBackend) *catalog.Service {
	return catalog.NewService(catalog.Params{Backend: be, Logger: zap.NewNop()})
}

func TestShopsRequiresCategory(t *testing.T) {
	svc := newService(&fakeBackend{})

	_, err := svc.Shops(context.Background(), "  ")
	require.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
}

func TestShopsUpstreamFailure(t *testing.T) {
	svc := newService(&fakeBackend{shopsErr: errors.New("backend down")})

	_, err := svc.Shops(context.Background(), "grocery")
	require.Error(t, err)
	assert.Equal(t, errorbank.KindUpstream, errorbank.From(err).Kind())
}

func TestLocationResolvesAddress(t *testing.T) {
	be := &fakeBackend{
		location: &entity.UserLocation{ID: 42, City: "Hyderabad", PinCode: "500001"},
	}
	svc := newService(be)

	loc, err := svc.Location(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), be.lastLocID)
	assert.Equal(t, "Hyderabad", loc.City)
}

func TestLocationRejectsInvalidID(t *testing.T) {
	be := &fakeBackend{}
	svc := newService(be)

	_, err := svc.Location(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
	// The backend is never consulted for an invalid id.
	assert.Zero(t, be.lastLocID)
}

func TestLocationUpstreamFailure(t *testing.T) {
	svc := newService(&fakeBackend{locErr: errors.New("timeout")})

	_, err := svc.Location(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, errorbank.KindUpstream, errorbank.From(err).Kind())
}
