package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Achorval/Voouch-Api-sub001/internal/feeconfig/domain"
	"github.com/Achorval/Voouch-Api-sub001/pkg/apperror"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapWriteErr(t *testing.T) {
	unique := func(constraint string) error {
		return fmt.Errorf("insert fee configuration: %w", &pgconn.PgError{Code: "23505", ConstraintName: constraint})
	}

	cases := []struct {
		name string
		err  error
		want error
	}{
		{"provider product code", unique("ux_fee_configurations_provider_product_code"), domain.ErrProductCodeExists},
		{"second default", unique("ux_fee_configurations_single_default"), domain.ErrBusy},
		{"product provider pair", unique("ux_fee_configurations_product_provider"), domain.ErrAlreadyExists},
		{"sqlite code column", errors.New("constraint failed: UNIQUE constraint failed: fee_configurations.provider_product_code (2067)"), domain.ErrProductCodeExists},
		{"sqlite pair columns", errors.New("constraint failed: UNIQUE constraint failed: fee_configurations.product_id, fee_configurations.provider_id (2067)"), domain.ErrAlreadyExists},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mapWriteErr(tc.err)
			assert.ErrorIs(t, got, tc.want)
			assert.Equal(t, apperror.KindConflict, apperror.KindOf(got))
			assert.ErrorIs(t, got, tc.err)
		})
	}
}

func TestMapWriteErrPassesOtherErrorsThrough(t *testing.T) {
	cause := &pgconn.PgError{Code: "40P01"}
	assert.Same(t, error(cause), mapWriteErr(cause))
	assert.Nil(t, mapWriteErr(nil))
}
