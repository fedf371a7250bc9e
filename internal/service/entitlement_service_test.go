package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/bulletform/bulletform-api/internal/constants"
	"github.com/bulletform/bulletform-api/internal/kv"
	"github.com/bulletform/bulletform-api/internal/repository"
)

func newEntitlementFixture(t *testing.T) (*EntitlementService, *repository.Repositories) {
	t.Helper()
	repos := repository.NewRepositories(kv.NewMemoryStore(), slog.Default())
	variantTiers := map[int64]string{111: constants.TierBasic, 222: constants.TierLifetime}
	licenseSvc := NewLicenseService(repos, variantTiers, slog.Default())
	return NewEntitlementService(licenseSvc, repos, slog.Default()), repos
}

func TestEntitlementService_CheckFree(t *testing.T) {
	const ip = "203.0.113.7"

	t.Run("fresh IP is allowed with two more after this one", func(t *testing.T) {
		svc, _ := newEntitlementFixture(t)

		d, err := svc.Check(context.Background(), ip, "")
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		if !d.Allowed {
			t.Fatalf("decision = %+v, want allowed", d)
		}
		if d.Tier != constants.TierFree {
			t.Errorf("tier = %q, want %q", d.Tier, constants.TierFree)
		}
		if d.Remaining != constants.FreeDailyLimit-1 {
			t.Errorf("remaining = %d, want %d", d.Remaining, constants.FreeDailyLimit-1)
		}
	})

	t.Run("last free slot reports zero remaining", func(t *testing.T) {
		svc, repos := newEntitlementFixture(t)
		for i := 0; i < constants.FreeDailyLimit-1; i++ {
			if _, err := repos.Usage.Increment(context.Background(), ip, false); err != nil {
				t.Fatalf("seed usage: %v", err)
			}
		}

		d, err := svc.Check(context.Background(), ip, "")
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		if !d.Allowed {
			t.Fatal("last slot should be allowed")
		}
		if d.Remaining != 0 {
			t.Errorf("remaining = %d, want 0", d.Remaining)
		}
	})

	t.Run("exhausted IP is denied for limit", func(t *testing.T) {
		svc, repos := newEntitlementFixture(t)
		for i := 0; i < constants.FreeDailyLimit; i++ {
			if _, err := repos.Usage.Increment(context.Background(), ip, false); err != nil {
				t.Fatalf("seed usage: %v", err)
			}
		}

		d, err := svc.Check(context.Background(), ip, "")
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		if d.Allowed {
			t.Fatal("exhausted IP was allowed")
		}
		if d.Reason != DenyLimitReached {
			t.Errorf("reason = %q, want %q", d.Reason, DenyLimitReached)
		}
	})
}

func TestEntitlementService_CheckLicensed(t *testing.T) {
	t.Run("unknown key is denied as invalid license", func(t *testing.T) {
		svc, _ := newEntitlementFixture(t)

		d, err := svc.Check(context.Background(), "203.0.113.7", "ZZZZ-ZZZZ-ZZZZ-ZZZZ")
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		if d.Allowed {
			t.Fatal("unknown key was allowed")
		}
		if d.Reason != DenyInvalidLicense {
			t.Errorf("reason = %q, want %q", d.Reason, DenyInvalidLicense)
		}
	})

	t.Run("exhausted basic key is denied for limit", func(t *testing.T) {
		svc, repos := newEntitlementFixture(t)
		key := seedLicense(t, repos, constants.TierBasic, constants.BasicGenerationCap)

		d, err := svc.Check(context.Background(), "203.0.113.7", key)
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		if d.Allowed {
			t.Fatal("exhausted basic key was allowed")
		}
		if d.Reason != DenyLimitReached {
			t.Errorf("reason = %q, want %q", d.Reason, DenyLimitReached)
		}
	})

	t.Run("basic key reserves a slot", func(t *testing.T) {
		svc, repos := newEntitlementFixture(t)
		key := seedLicense(t, repos, constants.TierBasic, 10)

		d, err := svc.Check(context.Background(), "203.0.113.7", key)
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		if !d.Allowed {
			t.Fatalf("decision = %+v, want allowed", d)
		}
		want := constants.BasicGenerationCap - 10 - 1
		if d.Remaining != want {
			t.Errorf("remaining = %d, want %d", d.Remaining, want)
		}
	})

	t.Run("lifetime key reports the sentinel", func(t *testing.T) {
		svc, repos := newEntitlementFixture(t)
		key := seedLicense(t, repos, constants.TierLifetime, 0)

		d, err := svc.Check(context.Background(), "203.0.113.7", key)
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		if !d.Allowed || d.Remaining != constants.UnlimitedSentinel {
			t.Errorf("decision = %+v, want allowed with sentinel remaining", d)
		}
	})
}

func TestEntitlementService_Charge(t *testing.T) {
	const ip = "203.0.113.7"

	t.Run("free charge settles the reserved slot", func(t *testing.T) {
		svc, repos := newEntitlementFixture(t)

		d, err := svc.Check(context.Background(), ip, "")
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		remaining, err := svc.Charge(context.Background(), d)
		if err != nil {
			t.Fatalf("Charge: %v", err)
		}
		if remaining != constants.FreeDailyLimit-1 {
			t.Errorf("remaining = %d, want %d", remaining, constants.FreeDailyLimit-1)
		}

		count, err := repos.Usage.GetCount(context.Background(), ip)
		if err != nil {
			t.Fatalf("GetCount: %v", err)
		}
		if count != 1 {
			t.Errorf("counter = %d, want 1", count)
		}
	})

	t.Run("basic charge returns the post-increment remaining", func(t *testing.T) {
		svc, repos := newEntitlementFixture(t)
		key := seedLicense(t, repos, constants.TierBasic, 10)

		d, err := svc.Check(context.Background(), ip, key)
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		remaining, err := svc.Charge(context.Background(), d)
		if err != nil {
			t.Fatalf("Charge: %v", err)
		}
		want := constants.BasicGenerationCap - 11
		if remaining != want {
			t.Errorf("remaining = %d, want %d", remaining, want)
		}

		record, err := repos.License.Get(context.Background(), key)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if record.GenerationsUsed != 11 {
			t.Errorf("generations used = %d, want 11", record.GenerationsUsed)
		}
	})

	t.Run("lifetime charge keeps the sentinel but records usage", func(t *testing.T) {
		svc, repos := newEntitlementFixture(t)
		key := seedLicense(t, repos, constants.TierLifetime, 0)

		d, err := svc.Check(context.Background(), ip, key)
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		remaining, err := svc.Charge(context.Background(), d)
		if err != nil {
			t.Fatalf("Charge: %v", err)
		}
		if remaining != constants.UnlimitedSentinel {
			t.Errorf("remaining = %d, want %d", remaining, constants.UnlimitedSentinel)
		}

		record, err := repos.License.Get(context.Background(), key)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if record.GenerationsUsed != 1 {
			t.Errorf("generations used = %d, want 1", record.GenerationsUsed)
		}
	})
}
