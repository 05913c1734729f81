package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/pageza/cookbook/backend/internal/apperrors"
	"github.com/pageza/cookbook/backend/internal/metrics"
	"github.com/pageza/cookbook/backend/internal/repository"
	"github.com/pageza/cookbook/backend/internal/service"
	"github.com/pageza/cookbook/backend/internal/testhelpers"
	"github.com/pageza/cookbook/backend/internal/types"
)

func intPtr(v int) *int { return &v }

type RecipeServiceTestSuite struct {
	suite.Suite
	db  *gorm.DB
	svc *service.RecipeService
}

func (s *RecipeServiceTestSuite) SetupTest() {
	s.db = testhelpers.SetupTestDB(s.T())
	s.svc = service.NewRecipeService(repository.NewStore(s.db), testhelpers.DiscardLogger())
}

func (s *RecipeServiceTestSuite) TestCreateRecipe() {
	ctx := context.Background()
	before := promtest.ToFloat64(metrics.RecipesCreated)

	first, err := s.svc.CreateRecipe(ctx, types.RecipeIn{
		Name: "Soup", CookingTime: intPtr(20), Ingredients: "water, salt", Description: "Boil.",
	})
	s.Require().NoError(err)
	s.Equal(int64(0), first.Views)
	s.Equal("Soup", first.Name)
	s.Equal(20, first.CookingTime)
	s.NotZero(first.ID)

	second, err := s.svc.CreateRecipe(ctx, types.RecipeIn{
		Name: "Soup", CookingTime: intPtr(20), Ingredients: "water, salt", Description: "Boil.",
	})
	s.Require().NoError(err)
	s.NotEqual(first.ID, second.ID)

	s.Equal(int64(2), testhelpers.CountRecipes(s.T(), s.db))
	s.Equal(before+2, promtest.ToFloat64(metrics.RecipesCreated))
}

func (s *RecipeServiceTestSuite) TestGetRecipeIncrementsViews() {
	ctx := context.Background()
	recipe := testhelpers.CreateTestRecipe(s.T(), s.db, "Stew", 60, 2)
	before := promtest.ToFloat64(metrics.RecipeViews)

	for i := 1; i <= 3; i++ {
		out, err := s.svc.GetRecipe(ctx, recipe.ID)
		s.Require().NoError(err)
		s.Equal(int64(2+i), out.Views)
		s.Equal("ingredient1, ingredient2", out.Ingredients)
	}

	s.Equal(int64(5), testhelpers.ReloadRecipe(s.T(), s.db, recipe.ID).Views)
	s.Equal(before+3, promtest.ToFloat64(metrics.RecipeViews))
}

func (s *RecipeServiceTestSuite) TestGetRecipeNotFound() {
	before := promtest.ToFloat64(metrics.RecipeViews)

	out, err := s.svc.GetRecipe(context.Background(), 999999)
	s.Nil(out)
	s.True(apperrors.IsNotFound(err))
	s.Equal(int64(0), testhelpers.CountRecipes(s.T(), s.db))
	s.Equal(before, promtest.ToFloat64(metrics.RecipeViews))
}

func (s *RecipeServiceTestSuite) TestGetRecipeCancelledContext() {
	recipe := testhelpers.CreateTestRecipe(s.T(), s.db, "Pie", 90, 7)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.svc.GetRecipe(ctx, recipe.ID)
	s.Error(err)
	s.Equal(apperrors.CodePersistence, apperrors.CodeOf(err))
	s.Equal(int64(7), testhelpers.ReloadRecipe(s.T(), s.db, recipe.ID).Views)
}

func (s *RecipeServiceTestSuite) TestConcurrentGetRecipe() {
	recipe := testhelpers.CreateTestRecipe(s.T(), s.db, "Risotto", 40, 1)

	const readers = 20
	var wg sync.WaitGroup
	errs := make(chan error, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.svc.GetRecipe(context.Background(), recipe.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.NoError(err)
	}
	s.Equal(int64(1+readers), testhelpers.ReloadRecipe(s.T(), s.db, recipe.ID).Views)
}

func (s *RecipeServiceTestSuite) TestListRecipes() {
	ctx := context.Background()
	testhelpers.CreateTestRecipe(s.T(), s.db, "Roast", 120, 3)
	testhelpers.CreateTestRecipe(s.T(), s.db, "Salad", 5, 3)
	testhelpers.CreateTestRecipe(s.T(), s.db, "Toast", 2, 9)

	items, err := s.svc.ListRecipes(ctx, 0, 100)
	s.Require().NoError(err)
	s.Require().Len(items, 3)
	s.Equal("Toast", items[0].Name)
	s.Equal("Salad", items[1].Name)
	s.Equal("Roast", items[2].Name)

	// Listing is read only.
	again, err := s.svc.ListRecipes(ctx, 0, 100)
	s.Require().NoError(err)
	s.Equal(items, again)
}

func (s *RecipeServiceTestSuite) TestListRecipesPartitions() {
	ctx := context.Background()
	a := testhelpers.CreateTestRecipe(s.T(), s.db, "A", 10, 1)
	b := testhelpers.CreateTestRecipe(s.T(), s.db, "B", 10, 2)

	first, err := s.svc.ListRecipes(ctx, 0, 1)
	s.Require().NoError(err)
	second, err := s.svc.ListRecipes(ctx, 1, 1)
	s.Require().NoError(err)

	s.Require().Len(first, 1)
	s.Require().Len(second, 1)
	s.Equal(b.ID, first[0].ID)
	s.Equal(a.ID, second[0].ID)
}

func (s *RecipeServiceTestSuite) TestListRecipesEmpty() {
	items, err := s.svc.ListRecipes(context.Background(), 0, 100)
	s.Require().NoError(err)
	s.NotNil(items)
	s.Empty(items)
}

func TestRecipeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeServiceTestSuite))
}

// failingStore rejects every unit-of-work without calling the callback.
type failingStore struct {
	mock.Mock
}

func (f *failingStore) Transaction(ctx context.Context, fn func(repo repository.RecipeRepository) error) error {
	args := f.Called(ctx)
	return args.Error(0)
}

func TestStorageFailuresBecomePersistenceErrors(t *testing.T) {
	dbErr := errors.New("disk I/O error")
	store := new(failingStore)
	store.On("Transaction", mock.Anything).Return(dbErr)
	svc := service.NewRecipeService(store, testhelpers.DiscardLogger())
	ctx := context.Background()

	_, err := svc.CreateRecipe(ctx, types.RecipeIn{
		Name: "Soup", CookingTime: intPtr(1), Ingredients: "x", Description: "y",
	})
	requirePersistence(t, err, dbErr)

	_, err = svc.GetRecipe(ctx, 1)
	requirePersistence(t, err, dbErr)

	_, err = svc.ListRecipes(ctx, 0, 10)
	requirePersistence(t, err, dbErr)

	store.AssertNumberOfCalls(t, "Transaction", 3)
}

func requirePersistence(t *testing.T, err, cause error) {
	t.Helper()
	if apperrors.CodeOf(err) != apperrors.CodePersistence {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected %v to wrap %v", err, cause)
	}
	if apperrors.HTTPStatus(err) != 500 {
		t.Fatalf("expected status 500, got %d", apperrors.HTTPStatus(err))
	}
}
