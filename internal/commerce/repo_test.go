package commerce

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseKeys(t *testing.T) {
	if _, err := parseUUIDKey("99baee49-e3b4-4bb8-af62-92f87ca461e7"); err != nil {
		t.Fatalf("valid uuid rejected: %v", err)
	}
	if _, err := parseUUIDKey("not-a-uuid"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("bad uuid: got %v, want ErrInvalidArgument", err)
	}
	if _, err := parseSerialKey("42"); err != nil {
		t.Fatalf("valid serial rejected: %v", err)
	}
	if _, err := parseSerialKey("abc"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("bad serial: got %v, want ErrInvalidArgument", err)
	}
}

func TestLineTotal(t *testing.T) {
	price := decimal.RequireFromString("9.99")
	if got := lineTotal(price, 2); !got.Equal(decimal.RequireFromString("19.98")) {
		t.Errorf("lineTotal(9.99, 2) = %s, want 19.98", got)
	}

	// sum over lines stays exact
	total := decimal.Zero
	total = total.Add(lineTotal(decimal.RequireFromString("0.10"), 3))
	total = total.Add(lineTotal(decimal.RequireFromString("1.05"), 2))
	if !total.Equal(decimal.RequireFromString("2.40")) {
		t.Errorf("total = %s, want 2.40", total)
	}
}

func TestProductWhere(t *testing.T) {
	where, args := productWhere(Filter{"quantity_gt": "5"})
	if where != " WHERE quantity > $1" || len(args) != 1 || args[0] != 5 {
		t.Errorf("quantity_gt: got %q %v", where, args)
	}

	where, args = productWhere(Filter{"quantity_gt": "5", "quantity_lte": "10"})
	if where != " WHERE quantity > $1 AND quantity <= $2" || len(args) != 2 {
		t.Errorf("both bounds: got %q %v", where, args)
	}

	// unrecognized and unparseable keys are ignored
	where, args = productWhere(Filter{"color": "red", "quantity_gt": "many"})
	if where != "" || args != nil {
		t.Errorf("junk filter: got %q %v", where, args)
	}
}

func TestOrderWhere(t *testing.T) {
	where, args := orderWhere(Filter{"status": "pending", "payment_status": "unpaid"})
	if where != " WHERE status = $1 AND payment_status = $2" {
		t.Errorf("got %q", where)
	}
	if len(args) != 2 || args[0] != "pending" || args[1] != "unpaid" {
		t.Errorf("args = %v", args)
	}

	where, _ = orderWhere(Filter{"customer": "1"})
	if where != "" {
		t.Errorf("unrecognized key produced %q", where)
	}
}

func TestProductPatchAssignments(t *testing.T) {
	name := "Widget"
	qty := 7
	set, args := ProductPatch{Name: &name, Quantity: &qty}.assignments()
	if set != "name=$1, quantity=$2" {
		t.Errorf("set = %q", set)
	}
	if len(args) != 2 || args[0] != "Widget" || args[1] != 7 {
		t.Errorf("args = %v", args)
	}

	set, args = ProductPatch{}.assignments()
	if set != "" || len(args) != 0 {
		t.Errorf("empty patch: %q %v", set, args)
	}
}

func TestCustomerPatchAssignments(t *testing.T) {
	email := "john@example.com"
	set, args := CustomerPatch{Email: &email}.assignments()
	if set != "email=$1" || len(args) != 1 {
		t.Errorf("got %q %v", set, args)
	}
}

func TestValidateProduct(t *testing.T) {
	price := decimal.RequireFromString("9.99")
	if err := validateProduct("Widget", price, 10); err != nil {
		t.Fatalf("valid product rejected: %v", err)
	}
	if err := validateProduct("", price, 10); !errors.Is(err, ErrValidation) {
		t.Errorf("missing name: %v", err)
	}
	if err := validateProduct("Widget", decimal.Zero, 10); !errors.Is(err, ErrValidation) {
		t.Errorf("zero price: %v", err)
	}
	if err := validateProduct("Widget", decimal.RequireFromString("-1"), 10); !errors.Is(err, ErrValidation) {
		t.Errorf("negative price: %v", err)
	}
	if err := validateProduct("Widget", price, -1); !errors.Is(err, ErrValidation) {
		t.Errorf("negative quantity: %v", err)
	}
}

func TestProductPatchValidate(t *testing.T) {
	bad := decimal.Zero
	if err := (ProductPatch{Price: &bad}).validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("zero price patch: %v", err)
	}
	empty := "  "
	if err := (ProductPatch{Name: &empty}).validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("blank name patch: %v", err)
	}
	if err := (ProductPatch{}).validate(); err != nil {
		t.Errorf("empty patch should pass: %v", err)
	}
}
