package contract

import (
	"errors"
	"strings"
	"testing"
)

func TestOrderValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		order   Order
		wantErr bool
		missing string
	}{
		{name: "complete", order: Order{Name: "Ana", CakeSize: "medium", Celebration: "birthday", DueDate: "Friday"}},
		{name: "blank name", order: Order{Name: "  ", CakeSize: "medium", Celebration: "birthday", DueDate: "Friday"}, wantErr: true, missing: "name"},
		{name: "all blank", order: Order{}, wantErr: true, missing: "name, cake_size, celebration, due_date"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.order.Validate()
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Validate() error = %v, want ErrValidation", err)
			}
			if !strings.Contains(err.Error(), tc.missing) {
				t.Fatalf("Validate() error = %q, want mention of %q", err, tc.missing)
			}
		})
	}
}

func TestOrderFieldsOrder(t *testing.T) {
	t.Parallel()

	got := Order{UserID: "1", Name: "Ana", CakeSize: "big", Celebration: "wedding", DueDate: "May 1"}.Fields()
	want := []string{"Ana", "big", "wedding", "May 1"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("Fields() = %v, want %v", got, want)
	}
}
