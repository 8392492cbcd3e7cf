package integration

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"ajo-circle-be/internal/dto"
	"ajo-circle-be/internal/entity"
	"ajo-circle-be/internal/pkg/logger"
	"ajo-circle-be/internal/repository/specification"
	"ajo-circle-be/internal/repository/unitofwork"
	"ajo-circle-be/internal/service"
	"ajo-circle-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rotationFixture struct {
	uowFactory        unitofwork.RepositoryFactory
	groupService      service.IGroupService
	slotService       service.ISlotService
	cycleService      service.ICycleService
	membershipService service.IMembershipService
	penaltyService    service.IPenaltyService
}

func setupRotationFixture(t *testing.T) *rotationFixture {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	testLogger := logger.NewIsolatedLogger("../../logs/integration_test.log")

	slotService := service.NewSlotService(uowFactory, nil, 24, testLogger)
	cycleService := service.NewCycleService(uowFactory, nil, nil, testLogger)
	membershipService := service.NewMembershipService(uowFactory, slotService, cycleService, nil, nil, testLogger)
	penaltyService := service.NewPenaltyService(uowFactory, cycleService, nil, nil, 500, testLogger)
	groupService := service.NewGroupService(uowFactory, 100, 500, testLogger)

	return &rotationFixture{
		uowFactory:        uowFactory,
		groupService:      groupService,
		slotService:       slotService,
		cycleService:      cycleService,
		membershipService: membershipService,
		penaltyService:    penaltyService,
	}
}

// settleVerifiedPayment inserts a payment record and moves it straight to
// verified, skipping the gateway round trip.
func (f *rotationFixture) settleVerifiedPayment(t *testing.T, ctx context.Context, record *entity.PaymentRecord) *entity.PaymentRecord {
	uow := f.uowFactory.NewUnitOfWork(ctx)

	_, created, err := uow.PaymentRepository().RecordAttempt(ctx, record)
	require.NoError(t, err)
	require.True(t, created)

	err = uow.PaymentRepository().MarkVerified(ctx, record.Reference, entity.VerificationStatusVerified, "success", record.Amount)
	require.NoError(t, err)

	verified, err := uow.PaymentRepository().FindOne(ctx, specification.ByReference{Reference: record.Reference})
	require.NoError(t, err)
	require.NotNil(t, verified)
	require.Equal(t, entity.VerificationStatusVerified, verified.VerificationStatus)
	return verified
}

// payContribution runs a recurring contribution through the settlement path:
// verified record, processed flip, contribution settled.
func (f *rotationFixture) payContribution(t *testing.T, ctx context.Context, groupId, userId uuid.UUID, email string, cycleNumber int, amount int64) {
	record := f.settleVerifiedPayment(t, ctx, &entity.PaymentRecord{
		Id:          uuid.New(),
		Reference:   "AJO-itest-" + uuid.New().String()[:12],
		GroupId:     groupId,
		UserId:      userId,
		Email:       email,
		Purpose:     entity.PurposeRecurringContribution,
		Amount:      amount,
		CycleNumber: cycleNumber,
	})
	uow := f.uowFactory.NewUnitOfWork(ctx)
	won, err := uow.PaymentRepository().MarkProcessed(ctx, record.Reference, time.Now())
	require.NoError(t, err)
	require.True(t, won)
	require.NoError(t, f.cycleService.SettleContribution(ctx, record))
}

func TestRotationLifecycle(t *testing.T) {
	f := setupRotationFixture(t)
	ctx := context.Background()

	owner := uuid.New()
	userA := uuid.New()
	userB := uuid.New()

	group, err := f.groupService.Create(ctx, owner, &dto.CreateGroupRequest{
		Name:               "integration-circle-" + uuid.New().String()[:8],
		Description:        "two member weekly circle",
		ContributionAmount: 500000,
		Frequency:          "weekly",
		TotalSlots:         2,
		ServiceFeeBps:      100,
		SecurityDepositBps: 2000,
		PenaltyRateBps:     500,
	})
	require.NoError(t, err)
	assert.Equal(t, "forming", group.Status)
	assert.Equal(t, int64(600000), group.EntryAmount)

	t.Run("Slot Board Starts Fully Available", func(t *testing.T) {
		board, err := f.slotService.SlotBoard(ctx, group.Id, uuid.Nil)
		require.NoError(t, err)
		require.Len(t, board.Slots, 2)
		for _, s := range board.Slots {
			assert.Equal(t, "available", s.Status)
		}
	})

	t.Run("Reserve Then Conflict", func(t *testing.T) {
		_, err := f.slotService.Reserve(ctx, userA, group.Id, 1)
		require.NoError(t, err)

		_, err = f.slotService.Reserve(ctx, userB, group.Id, 1)
		assert.ErrorIs(t, err, service.ErrSlotUnavailable)
	})

	t.Run("Entry Payments Activate The Group", func(t *testing.T) {
		recordA := f.settleVerifiedPayment(t, ctx, &entity.PaymentRecord{
			Id:             uuid.New(),
			Reference:      "AJO-itest-" + uuid.New().String()[:12],
			GroupId:        group.Id,
			UserId:         userA,
			Email:          "user-a@example.com",
			Purpose:        entity.PurposeEntryPayment,
			Amount:         600000,
			SlotPreference: 1,
		})
		memberA, err := f.membershipService.Activate(ctx, recordA)
		require.NoError(t, err)
		assert.Equal(t, 1, memberA.SlotNumber)

		// Replaying the same record is a success no-op.
		again, err := f.membershipService.Activate(ctx, recordA)
		require.NoError(t, err)
		assert.Equal(t, memberA.Id, again.Id)

		recordB := f.settleVerifiedPayment(t, ctx, &entity.PaymentRecord{
			Id:        uuid.New(),
			Reference: "AJO-itest-" + uuid.New().String()[:12],
			GroupId:   group.Id,
			UserId:    userB,
			Email:     "user-b@example.com",
			Purpose:   entity.PurposeEntryPayment,
			Amount:    600000,
		})
		memberB, err := f.membershipService.Activate(ctx, recordB)
		require.NoError(t, err)
		assert.Equal(t, 2, memberB.SlotNumber)

		detail, err := f.groupService.Show(ctx, group.Id)
		require.NoError(t, err)
		assert.Equal(t, "active", detail.Status)
		assert.Equal(t, 2, detail.CurrentMemberCount)

		cycles, err := f.cycleService.ListCycles(ctx, group.Id)
		require.NoError(t, err)
		require.Len(t, cycles, 2)
		assert.Equal(t, "active", cycles[0].Status)
		assert.Equal(t, "pending", cycles[1].Status)
	})

	t.Run("Cycle One Completes With A Payout", func(t *testing.T) {
		// One contribution in: the cycle must not advance yet.
		f.payContribution(t, ctx, group.Id, userA, "user-a@example.com", 1, 500000)
		advanced, completed, err := f.cycleService.AdvanceIfComplete(ctx, group.Id)
		require.NoError(t, err)
		assert.False(t, advanced)
		assert.False(t, completed)

		f.payContribution(t, ctx, group.Id, userB, "user-b@example.com", 1, 500000)
		advanced, completed, err = f.cycleService.AdvanceIfComplete(ctx, group.Id)
		require.NoError(t, err)
		assert.True(t, advanced)
		assert.False(t, completed)

		// gross 1_000_000, fee 1% = 10_000, payout 990_000. Both leave
		// the pool as negative postings.
		uow := f.uowFactory.NewUnitOfWork(ctx)
		transactions, err := uow.PaymentRepository().FindAllTransactions(ctx,
			specification.BelongsToGroup{GroupID: group.Id},
			specification.FilterBy{Field: "type", Value: string(entity.TransactionPayout)},
		)
		require.NoError(t, err)
		require.Len(t, transactions, 1)
		assert.Equal(t, int64(-990000), transactions[0].Amount)

		fees, err := uow.PaymentRepository().FindAllTransactions(ctx,
			specification.BelongsToGroup{GroupID: group.Id},
			specification.FilterBy{Field: "type", Value: string(entity.TransactionServiceFee)},
		)
		require.NoError(t, err)
		require.Len(t, fees, 1)
		assert.Equal(t, int64(-10000), fees[0].Amount)
	})

	t.Run("Overdue Scan Applies One Penalty Per Contribution", func(t *testing.T) {
		// Cycle 2 contributions are due two weeks after activation. Scan a
		// month out so both are past due.
		farFuture := time.Now().AddDate(0, 1, 0)
		applied, err := f.penaltyService.ScanOverdue(ctx, farFuture)
		require.NoError(t, err)
		// The scan is global; leftovers from other groups may be swept too.
		assert.GreaterOrEqual(t, applied, 2)

		uow := f.uowFactory.NewUnitOfWork(ctx)
		penalties, err := uow.PenaltyRepository().FindAll(ctx, specification.BelongsToGroup{GroupID: group.Id})
		require.NoError(t, err)
		require.Len(t, penalties, 2)
		// 5% of the 500_000 contribution.
		assert.Equal(t, int64(25000), penalties[0].Amount)

		// A rescan never doubles penalties for this group.
		_, err = f.penaltyService.ScanOverdue(ctx, farFuture)
		require.NoError(t, err)
		penalties, err = uow.PenaltyRepository().FindAll(ctx, specification.BelongsToGroup{GroupID: group.Id})
		require.NoError(t, err)
		assert.Len(t, penalties, 2)

		// A losing duplicate insert hands back the stored row, not the
		// attempted values.
		duplicate := &entity.Penalty{
			Id:             uuid.New(),
			GroupId:        group.Id,
			MembershipId:   penalties[0].MembershipId,
			ContributionId: penalties[0].ContributionId,
			Amount:         999,
			Status:         entity.PenaltyStatusApplied,
		}
		created, err := uow.PenaltyRepository().CreateIfAbsent(ctx, duplicate)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, penalties[0].Id, duplicate.Id)
		assert.Equal(t, int64(25000), duplicate.Amount)
	})

	t.Run("Final Cycle Completes The Group", func(t *testing.T) {
		// Overdue contributions still settle when paid late.
		f.payContribution(t, ctx, group.Id, userA, "user-a@example.com", 2, 500000)
		f.payContribution(t, ctx, group.Id, userB, "user-b@example.com", 2, 500000)

		// Late payment resolves the penalties the scan applied.
		uow := f.uowFactory.NewUnitOfWork(ctx)
		penalties, err := uow.PenaltyRepository().FindAll(ctx, specification.BelongsToGroup{GroupID: group.Id})
		require.NoError(t, err)
		require.Len(t, penalties, 2)
		for _, p := range penalties {
			assert.Equal(t, entity.PenaltyStatusPaid, p.Status)
		}

		advanced, completed, err := f.cycleService.AdvanceIfComplete(ctx, group.Id)
		require.NoError(t, err)
		assert.True(t, advanced)
		assert.True(t, completed)

		detail, err := f.groupService.Show(ctx, group.Id)
		require.NoError(t, err)
		assert.Equal(t, "completed", detail.Status)
	})
}

func TestEntryPaymentSlotContention(t *testing.T) {
	f := setupRotationFixture(t)
	ctx := context.Background()

	group, err := f.groupService.Create(ctx, uuid.New(), &dto.CreateGroupRequest{
		Name:               "contention-circle-" + uuid.New().String()[:8],
		ContributionAmount: 100000,
		Frequency:          "monthly",
		TotalSlots:         2,
	})
	require.NoError(t, err)

	// Two users verified entry payments wanting the same slot; the second
	// activation falls through to the next available slot.
	users := []uuid.UUID{uuid.New(), uuid.New()}
	slots := make(map[int]bool)
	for i, userId := range users {
		record := f.settleVerifiedPayment(t, ctx, &entity.PaymentRecord{
			Id:             uuid.New(),
			Reference:      fmt.Sprintf("AJO-contend-%s-%d", uuid.New().String()[:8], i),
			GroupId:        group.Id,
			UserId:         userId,
			Email:          fmt.Sprintf("user-%d@example.com", i),
			Purpose:        entity.PurposeEntryPayment,
			Amount:         100000,
			SlotPreference: 1,
		})
		membership, err := f.membershipService.Activate(ctx, record)
		require.NoError(t, err)
		assert.False(t, slots[membership.SlotNumber], "slot %d assigned twice", membership.SlotNumber)
		slots[membership.SlotNumber] = true
	}
	assert.Len(t, slots, 2)
}

func TestConcurrentDualPathSettlement(t *testing.T) {
	f := setupRotationFixture(t)
	ctx := context.Background()

	group, err := f.groupService.Create(ctx, uuid.New(), &dto.CreateGroupRequest{
		Name:               "dualpath-circle-" + uuid.New().String()[:8],
		ContributionAmount: 200000,
		Frequency:          "monthly",
		TotalSlots:         3,
	})
	require.NoError(t, err)

	userId := uuid.New()
	record := f.settleVerifiedPayment(t, ctx, &entity.PaymentRecord{
		Id:        uuid.New(),
		Reference: "AJO-dual-" + uuid.New().String()[:12],
		GroupId:   group.Id,
		UserId:    userId,
		Email:     "dual@example.com",
		Purpose:   entity.PurposeEntryPayment,
		Amount:    200000,
	})

	// The synchronous verify path and the gateway webhook race on the same
	// reference; the processed CAS lets exactly one actor run side effects.
	results := make([]*entity.Membership, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.membershipService.Activate(ctx, record)
		}(i)
	}
	wg.Wait()

	winners := 0
	for i := range errs {
		if errs[i] == nil {
			require.NotNil(t, results[i])
			winners++
			continue
		}
		// A loser that observes the winner mid-activation backs off with
		// no side effects of its own.
		require.ErrorIs(t, errs[i], service.ErrAlreadyProcessed)
	}
	require.GreaterOrEqual(t, winners, 1)

	uow := f.uowFactory.NewUnitOfWork(ctx)
	stored, err := uow.PaymentRepository().FindOne(ctx, specification.ByReference{Reference: record.Reference})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Processed)

	memberships, err := uow.MembershipRepository().FindAll(ctx,
		specification.BelongsToGroup{GroupID: group.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	require.NoError(t, err)
	assert.Len(t, memberships, 1)

	entries, err := uow.PaymentRepository().FindAllTransactions(ctx,
		specification.BelongsToGroup{GroupID: group.Id},
		specification.FilterBy{Field: "type", Value: string(entity.TransactionEntryPayment)},
	)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAdvanceResumesStalledRotation(t *testing.T) {
	f := setupRotationFixture(t)
	ctx := context.Background()

	group, err := f.groupService.Create(ctx, uuid.New(), &dto.CreateGroupRequest{
		Name:               "stalled-circle-" + uuid.New().String()[:8],
		ContributionAmount: 100000,
		Frequency:          "weekly",
		TotalSlots:         2,
	})
	require.NoError(t, err)

	users := []uuid.UUID{uuid.New(), uuid.New()}
	for i, userId := range users {
		record := f.settleVerifiedPayment(t, ctx, &entity.PaymentRecord{
			Id:        uuid.New(),
			Reference: fmt.Sprintf("AJO-stall-%s-%d", uuid.New().String()[:8], i),
			GroupId:   group.Id,
			UserId:    userId,
			Email:     fmt.Sprintf("stall-%d@example.com", i),
			Purpose:   entity.PurposeEntryPayment,
			Amount:    100000,
		})
		_, err := f.membershipService.Activate(ctx, record)
		require.NoError(t, err)
	}
	for i, userId := range users {
		f.payContribution(t, ctx, group.Id, userId, fmt.Sprintf("stall-%d@example.com", i), 1, 100000)
	}

	// Flip cycle 1 completed directly, as if the settler died between
	// winning the completion CAS and activating the successor.
	uow := f.uowFactory.NewUnitOfWork(ctx)
	won, err := uow.CycleRepository().CompleteActiveCycle(ctx, group.Id, 1, time.Now())
	require.NoError(t, err)
	require.True(t, won)

	// The next advance attempt finds no active cycle and resumes the
	// rotation by activating the lowest pending one.
	advanced, completed, err := f.cycleService.AdvanceIfComplete(ctx, group.Id)
	require.NoError(t, err)
	assert.False(t, advanced)
	assert.False(t, completed)

	cycles, err := f.cycleService.ListCycles(ctx, group.Id)
	require.NoError(t, err)
	require.Len(t, cycles, 2)
	assert.Equal(t, "completed", cycles[0].Status)
	assert.Equal(t, "active", cycles[1].Status)
}
