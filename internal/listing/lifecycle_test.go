package listing

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AyishaBeevi/ab-backend/internal/apperr"
	"github.com/AyishaBeevi/ab-backend/internal/models"
	"github.com/AyishaBeevi/ab-backend/internal/storage"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }

func validCreate() CreateInput {
	return CreateInput{
		Title:       "Sea View Villa",
		Description: "Four bedrooms by the beach",
		ListingType: "sale",
		Price:       floatPtr(2500000),
		Bedrooms:    intPtr(0),
		Bathrooms:   intPtr(3),
		Area:        floatPtr(320),
		Address:     "12 Palm Road",
		City:        "  Dubai ",
		Type:        " Villa",
		Furnished:   true,
		Images:      []storage.File{{Name: "a.jpg", MIME: "image/jpeg", Data: []byte("img1")}, {Name: "b.jpg", MIME: "image/jpeg", Data: []byte("img2")}},
	}
}

func TestCreateRequiresImagesAndListingType(t *testing.T) {
	f := newFixture()
	agent := f.user(models.RoleAgent)

	in := validCreate()
	in.Images = nil
	_, err := f.svc.Create(context.Background(), agent, in)
	require.True(t, apperr.Is(err, apperr.KindValidation))

	in = validCreate()
	in.ListingType = ""
	_, err = f.svc.Create(context.Background(), agent, in)
	require.True(t, apperr.Is(err, apperr.KindValidation))

	in = validCreate()
	in.Area = floatPtr(0)
	_, err = f.svc.Create(context.Background(), agent, in)
	require.True(t, apperr.Is(err, apperr.KindValidation))

	require.Zero(t, f.uploader.calls)
	require.Empty(t, f.props.items)
}

func TestCreateRejectsPlainUsers(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), f.user(models.RoleUser), validCreate())
	require.True(t, apperr.Is(err, apperr.KindAuthorization))

	_, err = f.svc.Create(context.Background(), nil, validCreate())
	require.True(t, apperr.Is(err, apperr.KindAuthentication))
}

func TestCreateStoresPendingListing(t *testing.T) {
	f := newFixture()
	agent := f.user(models.RoleAgent)

	p, err := f.svc.Create(context.Background(), agent, validCreate())
	require.NoError(t, err)

	require.False(t, p.IsApproved)
	require.True(t, p.IsActive)
	require.Equal(t, agent.ID, p.Agent)
	require.Equal(t, "dubai", p.Location.City)
	require.Equal(t, "villa", p.Type)
	require.Equal(t, 0, p.Bedrooms)
	require.Equal(t, models.DefaultCurrency, p.Currency)
	require.Equal(t, models.StatusAvailable, p.Status)
	require.Regexp(t, regexp.MustCompile(`^sea-view-villa-[0-9a-z]{4}$`), p.Slug)
	require.Equal(t, []string{"img1", "img2"}, []string{p.Images[0].PublicID, p.Images[1].PublicID})

	stored, ok := f.props.get(p.ID)
	require.True(t, ok)
	require.Equal(t, p.Slug, stored.Slug)
}

func TestCreateRetriesSlugCollisions(t *testing.T) {
	f := newFixture()
	agent := f.user(models.RoleAgent)

	f.props.forcedDups = 2
	_, err := f.svc.Create(context.Background(), agent, validCreate())
	require.NoError(t, err)

	f.props.forcedDups = slugAttempts
	_, err = f.svc.Create(context.Background(), agent, validCreate())
	require.True(t, apperr.Is(err, apperr.KindInternal))
}

func TestCreateAbortsWhenAnUploadFails(t *testing.T) {
	f := newFixture()
	f.uploader.fail = true

	_, err := f.svc.Create(context.Background(), f.user(models.RoleAgent), validCreate())
	require.Error(t, err)
	require.Empty(t, f.props.items)
}

func TestUpdateIsOwnerOnly(t *testing.T) {
	f := newFixture()
	owner := f.user(models.RoleAgent)
	listing := f.seed(func(p *models.Property) { p.Agent = owner.ID; p.Title = "Original" })

	for _, caller := range []string{models.RoleAgent, models.RoleAdmin} {
		_, err := f.svc.Update(context.Background(), f.user(caller), listing.ID, UpdateInput{Title: strPtr("Hijacked")})
		require.True(t, apperr.Is(err, apperr.KindAuthorization), "role %s", caller)
	}

	stored, _ := f.props.get(listing.ID)
	require.Equal(t, listing, stored)
}

func TestUpdateAppliesWhitelistedFields(t *testing.T) {
	f := newFixture()
	owner := f.user(models.RoleAgent)
	listing := f.seed(func(p *models.Property) { p.Agent = owner.ID })

	updated, err := f.svc.Update(context.Background(), owner, listing.ID, UpdateInput{
		Price:       floatPtr(0),
		City:        strPtr(" Abu Dhabi "),
		Address:     strPtr("2 New Street"),
		Type:        strPtr("APARTMENT"),
		ListingType: strPtr("rent"),
		Furnished:   boolPtr(true),
	})
	require.NoError(t, err)
	require.Equal(t, 0.0, updated.Price)
	require.Equal(t, "abu dhabi", updated.Location.City)
	require.Equal(t, "2 New Street", updated.Location.Address)
	require.Equal(t, "apartment", updated.Type)
	require.Equal(t, models.ListingRent, updated.ListingType)
	require.Equal(t, models.RentMonthly, updated.RentFrequency)
	require.Equal(t, listing.Images, updated.Images)
	require.Equal(t, listing.Slug, updated.Slug)
	require.Equal(t, listing.Agent, updated.Agent)

	_, err = f.svc.Update(context.Background(), owner, listing.ID, UpdateInput{ListingType: strPtr("lease")})
	require.True(t, apperr.Is(err, apperr.KindValidation))
}

func boolPtr(v bool) *bool { return &v }

func TestUpdateImagesKeepsExistingThenNew(t *testing.T) {
	f := newFixture()
	owner := f.user(models.RoleAgent)
	listing := f.seed(func(p *models.Property) { p.Agent = owner.ID })

	updated, err := f.svc.Update(context.Background(), owner, listing.ID, UpdateInput{
		ExistingImages: strPtr(`["https://cdn.example.com/x/keep-2.png","","https://cdn.example.com/x/keep-1.webp"]`),
		NewImages:      []storage.File{{Data: []byte("new-1")}, {Data: []byte("new-2")}},
	})
	require.NoError(t, err)

	ids := make([]string, 0, len(updated.Images))
	for _, img := range updated.Images {
		ids = append(ids, img.PublicID)
	}
	require.Equal(t, []string{"keep-2", "keep-1", "new-1", "new-2"}, ids)
}

func TestUpdateMalformedExistingImagesTreatedAsEmpty(t *testing.T) {
	f := newFixture()
	owner := f.user(models.RoleAgent)
	listing := f.seed(func(p *models.Property) { p.Agent = owner.ID })

	updated, err := f.svc.Update(context.Background(), owner, listing.ID, UpdateInput{
		ExistingImages: strPtr(`not json`),
		NewImages:      []storage.File{{Data: []byte("fresh")}},
	})
	require.NoError(t, err)
	require.Len(t, updated.Images, 1)
	require.Equal(t, "fresh", updated.Images[0].PublicID)
}

func TestUpdateWithoutImageFieldsKeepsImages(t *testing.T) {
	f := newFixture()
	owner := f.user(models.RoleAgent)
	listing := f.seed(func(p *models.Property) { p.Agent = owner.ID })

	updated, err := f.svc.Update(context.Background(), owner, listing.ID, UpdateInput{Title: strPtr("Renamed")})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Title)
	require.Equal(t, listing.Images, updated.Images)

	stored, ok := f.props.get(listing.ID)
	require.True(t, ok)
	require.Equal(t, listing.Images, stored.Images)
}

func TestUpdateMissingListing(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Update(context.Background(), f.user(models.RoleAgent), primitive.NewObjectID(), UpdateInput{})
	require.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDeleteOwnerOrAdmin(t *testing.T) {
	f := newFixture()
	owner := f.user(models.RoleAgent)
	a := f.seed(func(p *models.Property) { p.Agent = owner.ID; p.Slug = "a-1111" })
	b := f.seed(func(p *models.Property) { p.Agent = owner.ID; p.Slug = "b-2222" })

	err := f.svc.Delete(context.Background(), f.user(models.RoleAgent), a.ID)
	require.True(t, apperr.Is(err, apperr.KindAuthorization))

	require.NoError(t, f.svc.Delete(context.Background(), owner, a.ID))
	_, err = f.svc.GetBySlug(context.Background(), "a-1111")
	require.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, f.svc.Delete(context.Background(), f.user(models.RoleAdmin), b.ID))
	err = f.svc.Delete(context.Background(), owner, b.ID)
	require.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestSetAvailability(t *testing.T) {
	f := newFixture()
	owner := f.user(models.RoleAgent)
	listing := f.seed(func(p *models.Property) { p.Agent = owner.ID })

	_, err := f.svc.SetAvailability(context.Background(), owner, listing.ID, "leased")
	require.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.svc.SetAvailability(context.Background(), f.user(models.RoleAgent), listing.ID, models.StatusSold)
	require.True(t, apperr.Is(err, apperr.KindAuthorization))

	status, err := f.svc.SetAvailability(context.Background(), f.user(models.RoleAdmin), listing.ID, models.StatusRented)
	require.NoError(t, err)
	require.Equal(t, models.StatusRented, status)

	stored, _ := f.props.get(listing.ID)
	require.Equal(t, models.StatusRented, stored.Status)
}

func TestGetBySlugEmbedsAgent(t *testing.T) {
	f := newFixture()
	owner := f.user(models.RoleAgent)
	f.seed(func(p *models.Property) { p.Agent = owner.ID; p.Slug = "villa-abcd" })
	f.seed(func(p *models.Property) { p.Slug = "pending-abcd"; p.IsApproved = false })

	got, err := f.svc.GetBySlug(context.Background(), "villa-abcd")
	require.NoError(t, err)
	require.NotNil(t, got.Agent)
	require.Equal(t, "agent@example.com", got.Agent.Email)
	require.Empty(t, got.Agent.Role)

	_, err = f.svc.GetBySlug(context.Background(), "pending-abcd")
	require.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestAgentListings(t *testing.T) {
	f := newFixture()
	agent := f.user(models.RoleAgent)
	f.seed(func(p *models.Property) { p.Agent = agent.ID; p.IsApproved = false })
	f.seed(func(p *models.Property) { p.Agent = agent.ID; p.Status = models.StatusSold })
	f.seed(nil)

	all, err := f.svc.AgentListings(context.Background(), agent, AgentQuery{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	pending, err := f.svc.AgentListings(context.Background(), agent, AgentQuery{Approval: "pending"})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.False(t, pending[0].IsApproved)

	sold, err := f.svc.AgentListings(context.Background(), agent, AgentQuery{Availability: "sold"})
	require.NoError(t, err)
	require.Len(t, sold, 1)

	_, err = f.svc.AgentListings(context.Background(), agent, AgentQuery{Availability: "gone"})
	require.True(t, apperr.Is(err, apperr.KindValidation))
}
