package service

import (
	"context"
	"errors"
	"testing"

	"github.com/kannammal-agro/pricing-system/internal/core/domain"
	"github.com/kannammal-agro/pricing-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Get tests
// ---------------------------------------------------------------------------

func TestQueryService_Get_OwnerSeesOwn(t *testing.T) {
	repo := newStubSubmissionRepo()
	svc := NewQueryService(repo, discardLogger)
	seedSubmission(repo, "SUB-1", "KANN", domain.StatusPending)

	owner := domain.Actor{ID: "buyer_1", Role: domain.RoleBuyer, FirmCode: "KANN"}
	got, err := svc.Get(context.Background(), "SUB-1", owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "SUB-1" {
		t.Errorf("want SUB-1, got %q", got.ID)
	}
}

func TestQueryService_Get_OtherBuyerForbidden(t *testing.T) {
	repo := newStubSubmissionRepo()
	svc := NewQueryService(repo, discardLogger)
	seedSubmission(repo, "SUB-1", "KANN", domain.StatusPending)

	other := domain.Actor{ID: "buyer_2", Role: domain.RoleBuyer, FirmCode: "KANN"}
	_, err := svc.Get(context.Background(), "SUB-1", other)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestQueryService_Get_CrossFirmForbidden(t *testing.T) {
	repo := newStubSubmissionRepo()
	svc := NewQueryService(repo, discardLogger)
	seedSubmission(repo, "SUB-1", "KANN", domain.StatusPending)

	head := domain.Actor{ID: "head_2", Role: domain.RoleBusinessHead, FirmCode: "OTHER"}
	_, err := svc.Get(context.Background(), "SUB-1", head)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden across firms, got %v", err)
	}
}

func TestQueryService_Get_CategoryHeadScope(t *testing.T) {
	repo := newStubSubmissionRepo()
	svc := NewQueryService(repo, discardLogger)
	seedSubmission(repo, "SUB-1", "KANN", domain.StatusPending) // category VEG

	inScope := domain.Actor{
		ID: "cat_1", Role: domain.RoleCategoryHead, FirmCode: "KANN",
		CategoryScope: &domain.CategoryScope{Categories: []string{"VEG", "FRUIT"}},
	}
	if _, err := svc.Get(context.Background(), "SUB-1", inScope); err != nil {
		t.Errorf("in-scope category head must see the submission: %v", err)
	}

	outOfScope := domain.Actor{
		ID: "cat_2", Role: domain.RoleCategoryHead, FirmCode: "KANN",
		CategoryScope: &domain.CategoryScope{Categories: []string{"GRAIN"}},
	}
	if _, err := svc.Get(context.Background(), "SUB-1", outOfScope); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("out-of-scope category head must get ErrForbidden, got %v", err)
	}
}

func TestQueryService_Get_NotFound(t *testing.T) {
	repo := newStubSubmissionRepo()
	svc := NewQueryService(repo, discardLogger)

	_, err := svc.Get(context.Background(), "SUB-MISSING", superuser())
	if !errors.Is(err, domain.ErrSubmissionNotFound) {
		t.Errorf("expected ErrSubmissionNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// List tests
// ---------------------------------------------------------------------------

func TestQueryService_List_BuyerScopedToOwn(t *testing.T) {
	repo := newStubSubmissionRepo()
	svc := NewQueryService(repo, discardLogger)
	seedSubmission(repo, "SUB-1", "KANN", domain.StatusPending)
	other := seedSubmission(repo, "SUB-2", "KANN", domain.StatusPending)
	other.BuyerID = "buyer_2"
	other.PricePerUnit = 19

	res, err := svc.List(context.Background(), ports.ListSubmissionsInput{
		Actor: domain.Actor{ID: "buyer_1", Role: domain.RoleBuyer, FirmCode: "KANN"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 1 {
		t.Errorf("buyer must only see own submissions, got %d", res.Total)
	}
}

func TestQueryService_List_BusinessHeadSeesFirm(t *testing.T) {
	repo := newStubSubmissionRepo()
	svc := NewQueryService(repo, discardLogger)
	seedSubmission(repo, "SUB-1", "KANN", domain.StatusPending)
	s2 := seedSubmission(repo, "SUB-2", "KANN", domain.StatusApproved)
	s2.BuyerID = "buyer_2"
	s2.PricePerUnit = 19
	seedSubmission(repo, "SUB-3", "OTHER", domain.StatusPending)

	res, err := svc.List(context.Background(), ports.ListSubmissionsInput{
		Actor: domain.Actor{ID: "head_1", Role: domain.RoleBusinessHead, FirmCode: "KANN"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 2 {
		t.Errorf("business head must see the whole firm, got %d", res.Total)
	}
}

func TestQueryService_List_AdminUnscoped(t *testing.T) {
	repo := newStubSubmissionRepo()
	svc := NewQueryService(repo, discardLogger)
	seedSubmission(repo, "SUB-1", "KANN", domain.StatusPending)
	seedSubmission(repo, "SUB-2", "OTHER", domain.StatusPending)

	res, err := svc.List(context.Background(), ports.ListSubmissionsInput{
		Actor: domain.Actor{ID: "adm_1", Role: domain.RoleAdmin},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 2 {
		t.Errorf("admin must see all firms, got %d", res.Total)
	}
}

func TestQueryService_List_CategoryHeadNarrowedToScope(t *testing.T) {
	repo := newStubSubmissionRepo()
	svc := NewQueryService(repo, discardLogger)
	seedSubmission(repo, "SUB-1", "KANN", domain.StatusPending) // VEG
	grain := seedSubmission(repo, "SUB-2", "KANN", domain.StatusPending)
	grain.CategoryCode = "GRAIN"
	grain.Product.CategoryCode = "GRAIN"

	res, err := svc.List(context.Background(), ports.ListSubmissionsInput{
		Actor: domain.Actor{
			ID: "cat_1", Role: domain.RoleCategoryHead, FirmCode: "KANN",
			CategoryScope: &domain.CategoryScope{Categories: []string{"VEG"}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 1 {
		t.Errorf("category head must be narrowed to scoped categories, got %d", res.Total)
	}
}

func TestQueryService_List_RoleNoneSeesNothing(t *testing.T) {
	repo := newStubSubmissionRepo()
	svc := NewQueryService(repo, discardLogger)
	seedSubmission(repo, "SUB-1", "KANN", domain.StatusPending)

	res, err := svc.List(context.Background(), ports.ListSubmissionsInput{
		Actor: domain.Actor{ID: "ghost", Role: domain.RoleNone},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 0 || len(res.Items) != 0 {
		t.Errorf("role NONE must see nothing, got %d", res.Total)
	}
}

func TestQueryService_List_StatusFilter(t *testing.T) {
	repo := newStubSubmissionRepo()
	svc := NewQueryService(repo, discardLogger)
	seedSubmission(repo, "SUB-1", "KANN", domain.StatusPending)
	s2 := seedSubmission(repo, "SUB-2", "KANN", domain.StatusApproved)
	s2.PricePerUnit = 19

	res, err := svc.List(context.Background(), ports.ListSubmissionsInput{
		Actor:  domain.Actor{ID: "adm_1", Role: domain.RoleAdmin},
		Status: "APPROVED",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 1 {
		t.Errorf("status filter: expected 1, got %d", res.Total)
	}
}

func TestQueryService_List_LimitCappedAt100(t *testing.T) {
	repo := newStubSubmissionRepo()
	svc := NewQueryService(repo, discardLogger)

	res, err := svc.List(context.Background(), ports.ListSubmissionsInput{
		Actor: domain.Actor{ID: "adm_1", Role: domain.RoleAdmin},
		Limit: 999,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Limit != 100 {
		t.Errorf("expected limit 100, got %d", res.Limit)
	}
}

func TestQueryService_List_DefaultLimit(t *testing.T) {
	repo := newStubSubmissionRepo()
	svc := NewQueryService(repo, discardLogger)

	res, err := svc.List(context.Background(), ports.ListSubmissionsInput{
		Actor: domain.Actor{ID: "adm_1", Role: domain.RoleAdmin},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Limit != 20 {
		t.Errorf("expected default limit 20, got %d", res.Limit)
	}
	if res.Page != 1 {
		t.Errorf("expected default page 1, got %d", res.Page)
	}
}

func TestQueryService_List_PaginationMath(t *testing.T) {
	repo := newStubSubmissionRepo()
	svc := NewQueryService(repo, discardLogger)
	for i, id := range []string{"SUB-1", "SUB-2", "SUB-3", "SUB-4", "SUB-5"} {
		s := seedSubmission(repo, id, "KANN", domain.StatusPending)
		s.PricePerUnit = float64(10 + i)
	}

	res, err := svc.List(context.Background(), ports.ListSubmissionsInput{
		Actor: domain.Actor{ID: "adm_1", Role: domain.RoleAdmin},
		Page:  1,
		Limit: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 5 {
		t.Errorf("total: expected 5, got %d", res.Total)
	}
	if res.TotalPages != 3 {
		t.Errorf("total_pages: expected 3, got %d", res.TotalPages)
	}
	if len(res.Items) != 2 {
		t.Errorf("items: expected 2, got %d", len(res.Items))
	}
}

// ---------------------------------------------------------------------------
// Stats tests
// ---------------------------------------------------------------------------

func TestQueryService_Stats_CountsAndRate(t *testing.T) {
	repo := newStubSubmissionRepo()
	svc := NewQueryService(repo, discardLogger)
	for i, st := range []domain.SubmissionStatus{
		domain.StatusApproved, domain.StatusApproved, domain.StatusPending, domain.StatusCancelled,
	} {
		s := seedSubmission(repo, "SUB-"+string(rune('1'+i)), "KANN", st)
		s.PricePerUnit = float64(10 + i)
	}

	stats, err := svc.Stats(context.Background(), ports.StatsInput{FirmCode: "KANN"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 4 || stats.Approved != 2 || stats.Pending != 1 || stats.Cancelled != 1 {
		t.Errorf("counts wrong: %+v", stats)
	}
	if stats.ApprovalRate != 50.0 {
		t.Errorf("approval rate: expected 50.0, got %v", stats.ApprovalRate)
	}
}

func TestQueryService_Stats_EmptyStore(t *testing.T) {
	repo := newStubSubmissionRepo()
	svc := NewQueryService(repo, discardLogger)

	stats, err := svc.Stats(context.Background(), ports.StatsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 0 || stats.ApprovalRate != 0 {
		t.Errorf("empty store must report zero counts and rate, got %+v", stats)
	}
}

func TestQueryService_Stats_RateRoundedToTwoDecimals(t *testing.T) {
	repo := newStubSubmissionRepo()
	svc := NewQueryService(repo, discardLogger)
	statuses := []domain.SubmissionStatus{
		domain.StatusApproved, domain.StatusPending, domain.StatusPending,
	}
	for i, st := range statuses {
		s := seedSubmission(repo, "SUB-"+string(rune('1'+i)), "KANN", st)
		s.PricePerUnit = float64(10 + i)
	}

	stats, err := svc.Stats(context.Background(), ports.StatsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 1/3 = 33.333... -> 33.33
	if stats.ApprovalRate != 33.33 {
		t.Errorf("approval rate: expected 33.33, got %v", stats.ApprovalRate)
	}
}
