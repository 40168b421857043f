package integration

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"fxportal/internal/domain"
	"fxportal/internal/payment"
	"fxportal/internal/repository"
	"fxportal/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	return db
}

func createUser(t *testing.T, db *pgxpool.Pool) *domain.User {
	t.Helper()
	suffix := uuid.NewString()[:8]
	u := &domain.User{
		Username:     "it_" + suffix,
		Email:        "it_" + suffix + "@test.local",
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "User",
	}
	if err := repository.NewUserRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func createLiveAccount(t *testing.T, db *pgxpool.Pool, ledger *service.LedgerService, userID int64, balance string) *domain.TradingAccount {
	t.Helper()
	a := &domain.TradingAccount{
		UserID:        userID,
		AccountNumber: service.NewAccountNumber(),
		Type:          domain.AccountTypeLive,
		Group:         "standard",
		Leverage:      100,
	}
	if err := repository.NewAccountRepository(db).Create(context.Background(), a); err != nil {
		t.Fatalf("create account: %v", err)
	}

	if balance != "" {
		amount, err := decimal.NewFromString(balance)
		if err != nil {
			t.Fatalf("bad balance %q: %v", balance, err)
		}
		ctx := context.Background()
		tx, err := ledger.Begin(ctx)
		if err != nil {
			t.Fatalf("begin: %v", err)
		}
		if _, err := ledger.CreditTx(ctx, tx, a.ID, amount, domain.EntryTypeDeposit, "deposit", 0); err != nil {
			t.Fatalf("seed balance: %v", err)
		}
		if err := tx.Commit(ctx); err != nil {
			t.Fatalf("commit seed: %v", err)
		}
	}
	return a
}

func mustBalance(t *testing.T, ledger *service.LedgerService, accountID int64) (balance, hold decimal.Decimal) {
	t.Helper()
	balance, hold, err := ledger.GetBalance(context.Background(), accountID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	return balance, hold
}

// A duplicate provider notification must never credit twice: the second
// completion is rejected and the balance is unchanged.
func TestDepositCompletionCreditsExactlyOnce(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()

	ledger := service.NewLedgerService(db)
	referrals := service.NewReferralService(db, decimal.New(1, -2))
	deposits := service.NewDepositService(db, ledger, referrals,
		payment.NewClient("http://localhost:0", "test"), "http://localhost/return", decimal.NewFromInt(10))

	user := createUser(t, db)
	account := createLiveAccount(t, db, ledger, user.ID, "")

	providerID := "pi_" + uuid.NewString()
	deposit := &domain.Deposit{
		UserID:           user.ID,
		TradingAccountID: account.ID,
		Merchant:         "card",
		Amount:           decimal.NewFromInt(150),
		Status:           domain.DepositStatusPending,
		ProviderID:       providerID,
	}
	if err := repository.NewDepositRepository(db).Create(ctx, deposit); err != nil {
		t.Fatalf("create deposit: %v", err)
	}

	if _, err := deposits.Complete(ctx, providerID, "txn-1"); err != nil {
		t.Fatalf("first complete: %v", err)
	}
	balance, _ := mustBalance(t, ledger, account.ID)
	if !balance.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("balance after completion = %s, want 150", balance)
	}

	if _, err := deposits.Complete(ctx, providerID, "txn-1"); err != service.ErrDuplicateTransaction {
		t.Fatalf("replay: got %v, want ErrDuplicateTransaction", err)
	}
	balance, _ = mustBalance(t, ledger, account.ID)
	if !balance.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("balance after replay = %s, want 150", balance)
	}
}

// Two transfers racing on one source account must serialize on the row
// lock: with $1000 available and two $800 transfers, exactly one settles
// and the balance never goes negative.
func TestConcurrentTransfersCannotOverdraw(t *testing.T) {
	db := testPool(t)

	ledger := service.NewLedgerService(db)
	transfers := service.NewTransferService(db, ledger,
		service.NewOTPStore(nil, time.Minute), decimal.New(25, -3), 10*time.Minute)

	user := createUser(t, db)
	src := createLiveAccount(t, db, ledger, user.ID, "1000")
	dstA := createLiveAccount(t, db, ledger, user.ID, "")
	dstB := createLiveAccount(t, db, ledger, user.ID, "")

	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for i, dst := range []int64{dstA.ID, dstB.ID} {
		go func(i int, dst int64) {
			defer wg.Done()
			_, errs[i] = transfers.Internal(context.Background(), user.ID, src.ID, dst, "800", "")
		}(i, dst)
	}
	wg.Wait()

	var succeeded, insufficient int
	for _, err := range errs {
		switch err {
		case nil:
			succeeded++
		case service.ErrInsufficientFunds:
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || insufficient != 1 {
		t.Fatalf("got %d settled, %d rejected; want exactly one of each", succeeded, insufficient)
	}

	balance, hold := mustBalance(t, ledger, src.ID)
	if balance.Sign() < 0 {
		t.Fatalf("source balance went negative: %s", balance)
	}
	if !balance.Equal(decimal.NewFromInt(200)) || !hold.IsZero() {
		t.Fatalf("source = %s (hold %s), want 200 (hold 0)", balance, hold)
	}

	balA, _ := mustBalance(t, ledger, dstA.ID)
	balB, _ := mustBalance(t, ledger, dstB.ID)
	if !balA.Add(balB).Equal(decimal.NewFromInt(800)) {
		t.Fatalf("destinations received %s total, want 800", balA.Add(balB))
	}
}

// A withdrawal request places a hold; rejection must release it in full and
// completion must capture it. Also checks that document review reports the
// document owner's id.
func TestWithdrawalHoldLifecycle(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()

	ledger := service.NewLedgerService(db)
	verification := service.NewVerificationService(db)
	documents := service.NewDocumentService(db, verification)
	withdrawals := service.NewWithdrawalService(db, ledger, verification, decimal.NewFromInt(10))

	admin := createUser(t, db)
	user := createUser(t, db)
	account := createLiveAccount(t, db, ledger, user.ID, "1000")

	doc, err := documents.Submit(ctx, user.ID, domain.DocumentTypeIDProof, "id.png", "https://files.test/id.png")
	if err != nil {
		t.Fatalf("submit document: %v", err)
	}
	ownerID, status, err := documents.Verify(ctx, admin.ID, doc.ID)
	if err != nil {
		t.Fatalf("verify document: %v", err)
	}
	if ownerID != user.ID {
		t.Fatalf("verify reported owner %d, want %d", ownerID, user.ID)
	}
	if !status.IsVerified {
		t.Fatalf("user not verified after document approval: %+v", status)
	}

	req := &service.WithdrawalRequest{
		AccountID:         account.ID,
		Method:            string(domain.WithdrawalMethodBankTransfer),
		Amount:            "250",
		BankName:          "Test Bank",
		AccountNumber:     "123456",
		AccountHolderName: "Test User",
		SwiftCode:         "TESTUS33",
	}

	first, err := withdrawals.Create(ctx, user.ID, req)
	if err != nil {
		t.Fatalf("create withdrawal: %v", err)
	}
	balance, hold := mustBalance(t, ledger, account.ID)
	if !balance.Equal(decimal.NewFromInt(1000)) || !hold.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("after request: balance %s hold %s, want 1000/250", balance, hold)
	}

	if _, err := withdrawals.Reject(ctx, admin.ID, first.ID, "documents illegible"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	balance, hold = mustBalance(t, ledger, account.ID)
	if !balance.Equal(decimal.NewFromInt(1000)) || !hold.IsZero() {
		t.Fatalf("after reject: balance %s hold %s, want 1000/0", balance, hold)
	}

	second, err := withdrawals.Create(ctx, user.ID, req)
	if err != nil {
		t.Fatalf("second withdrawal: %v", err)
	}
	if _, err := withdrawals.Complete(ctx, admin.ID, second.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	balance, hold = mustBalance(t, ledger, account.ID)
	if !balance.Equal(decimal.NewFromInt(750)) || !hold.IsZero() {
		t.Fatalf("after complete: balance %s hold %s, want 750/0", balance, hold)
	}
}
