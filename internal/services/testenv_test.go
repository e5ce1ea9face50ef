package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pawlog/pawlog-backend/internal/db"
	"github.com/pawlog/pawlog-backend/internal/logger"
	"github.com/pawlog/pawlog-backend/internal/repos"
	"github.com/pawlog/pawlog-backend/internal/requestdata"
	"github.com/pawlog/pawlog-backend/internal/types"
)

// testEnv wires the full service stack over a throwaway sqlite database,
// the same way cmd/main.go wires it over postgres.
type testEnv struct {
	db           *gorm.DB
	userRepo     repos.UserRepo
	petRepo      repos.PetRepo
	itemRepo     repos.ItemRepo
	scheduleRepo repos.ItemScheduleRepo
	instanceRepo repos.DailyInstanceRepo
	historyRepo  repos.ConfirmationHistoryRepo

	users     UserService
	catalog   CatalogService
	generator GeneratorService
	lifecycle LifecycleService
	today     TodayService
	history   HistoryService
	seed      SeedService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gormDB, err := db.NewSQLite(filepath.Join(t.TempDir(), "pawlog_test.db"), nil)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	log := &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}

	userRepo := repos.NewUserRepo(gormDB, log)
	petRepo := repos.NewPetRepo(gormDB, log)
	itemRepo := repos.NewItemRepo(gormDB, log)
	scheduleRepo := repos.NewItemScheduleRepo(gormDB, log)
	instanceRepo := repos.NewDailyInstanceRepo(gormDB, log)
	historyRepo := repos.NewConfirmationHistoryRepo(gormDB, log)

	return &testEnv{
		db:           gormDB,
		userRepo:     userRepo,
		petRepo:      petRepo,
		itemRepo:     itemRepo,
		scheduleRepo: scheduleRepo,
		instanceRepo: instanceRepo,
		historyRepo:  historyRepo,
		users:        NewUserService(gormDB, log, userRepo),
		catalog:      NewCatalogService(gormDB, log, userRepo, petRepo, itemRepo, scheduleRepo),
		generator:    NewGeneratorService(gormDB, log, itemRepo, scheduleRepo, instanceRepo),
		lifecycle:    NewLifecycleService(gormDB, log, userRepo, instanceRepo, historyRepo),
		today:        NewTodayService(gormDB, log, itemRepo, instanceRepo),
		history:      NewHistoryService(gormDB, log, userRepo, itemRepo, instanceRepo, historyRepo),
		seed:         NewSeedService(gormDB, log, petRepo, itemRepo, scheduleRepo, instanceRepo, historyRepo),
	}
}

// identityCtx simulates a verified token for an identity that may or may
// not be provisioned yet.
func identityCtx(externalID, name string) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		ExternalID: externalID,
		Name:       name,
	})
}

func (te *testEnv) mustCreateUser(t *testing.T, name string, role types.UserRole) *types.User {
	t.Helper()
	user := &types.User{
		ID:         uuid.New(),
		ExternalID: "ext-" + name,
		Name:       name,
		Role:       role,
	}
	if _, err := te.userRepo.Create(context.Background(), nil, user); err != nil {
		t.Fatalf("creating user %s: %v", name, err)
	}
	return user
}

func (te *testEnv) actorCtx(user *types.User) context.Context {
	return identityCtx(user.ExternalID, user.Name)
}

func (te *testEnv) mustCreatePet(t *testing.T) *types.Pet {
	t.Helper()
	pet := &types.Pet{ID: uuid.New(), Name: "Yuki", Species: "dog", IsActive: true}
	if _, err := te.petRepo.Create(context.Background(), nil, pet); err != nil {
		t.Fatalf("creating pet: %v", err)
	}
	return pet
}

func (te *testEnv) mustCreateItem(t *testing.T, petID uuid.UUID, name string, itemType types.ItemType, conflictGroup string) *types.Item {
	t.Helper()
	item := &types.Item{
		ID:            uuid.New(),
		PetID:         petID,
		Name:          name,
		Dose:          "1 unit",
		Type:          itemType,
		ConflictGroup: conflictGroup,
		IsActive:      true,
	}
	if _, err := te.itemRepo.Create(context.Background(), nil, item); err != nil {
		t.Fatalf("creating item %s: %v", name, err)
	}
	return item
}

func (te *testEnv) mustCreateSchedule(t *testing.T, itemID uuid.UUID, hour, minute int) *types.ItemSchedule {
	t.Helper()
	schedule := &types.ItemSchedule{
		ID:              uuid.New(),
		ItemID:          itemID,
		TimeOfDay:       types.TimeOfDayMorning,
		ScheduledHour:   hour,
		ScheduledMinute: minute,
	}
	if _, err := te.scheduleRepo.Create(context.Background(), nil, schedule); err != nil {
		t.Fatalf("creating schedule: %v", err)
	}
	return schedule
}

// mustCreateInstance inserts a pending scheduled instance directly, the
// shape the generator would produce.
func (te *testEnv) mustCreateInstance(t *testing.T, item *types.Item, scheduleID uuid.UUID, date string, hour, minute int) *types.DailyInstance {
	t.Helper()
	itemID := item.ID
	sID := scheduleID
	instance := &types.DailyInstance{
		ID:              uuid.New(),
		ItemID:          &itemID,
		ScheduleID:      &sID,
		PetID:           item.PetID,
		Date:            date,
		ScheduledHour:   hour,
		ScheduledMinute: minute,
		Status:          types.StatusPending,
		IsObservation:   false,
	}
	if _, err := te.instanceRepo.Create(context.Background(), nil, instance); err != nil {
		t.Fatalf("creating instance: %v", err)
	}
	return instance
}

func (te *testEnv) mustGetInstance(t *testing.T, instanceID uuid.UUID) *types.DailyInstance {
	t.Helper()
	instance, err := te.instanceRepo.GetByID(context.Background(), nil, instanceID)
	if err != nil {
		t.Fatalf("loading instance: %v", err)
	}
	if instance == nil {
		t.Fatalf("instance %s not found", instanceID)
	}
	return instance
}
