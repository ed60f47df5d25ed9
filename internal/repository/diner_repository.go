package repository

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/unclebandit/dinerreach/internal/db"
	"github.com/unclebandit/dinerreach/internal/model"
)

// DinerRepositoryInterface defines methods used by the directory and the seeder
type DinerRepositoryInterface interface {
	ListDiners(ctx context.Context) ([]model.Diner, error)
	UpsertDiners(ctx context.Context, diners []model.Diner) error
}

// DinerRepository reads the roster from the diners table
type DinerRepository struct {
	DB *db.DB
}

// ListDiners returns the roster ordered by id
func (r *DinerRepository) ListDiners(ctx context.Context) ([]model.Diner, error) {
	query := `
        SELECT id, name, location, interests, age, last_visit, email
        FROM diners
        ORDER BY id
    `
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query diners")
	}
	defer rows.Close()

	diners := []model.Diner{}
	for rows.Next() {
		var d model.Diner
		var interests string
		if err := rows.Scan(&d.ID, &d.Name, &d.Location, &interests, &d.Age, &d.LastVisit, &d.Email); err != nil {
			return nil, errors.Wrap(err, "scan diner")
		}
		if err := json.Unmarshal([]byte(interests), &d.Interests); err != nil {
			return nil, errors.Wrapf(err, "decode interests of diner %d", d.ID)
		}
		diners = append(diners, d)
	}
	return diners, errors.Wrap(rows.Err(), "iterate diners")
}

// UpsertDiners writes the roster in one transaction (used by the seeder)
func (r *DinerRepository) UpsertDiners(ctx context.Context, diners []model.Diner) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin diner upsert")
	}
	defer tx.Rollback()

	query := r.DB.Rebind(`
        INSERT INTO diners (id, name, location, interests, age, last_visit, email)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (id) DO UPDATE SET
            name = excluded.name,
            location = excluded.location,
            interests = excluded.interests,
            age = excluded.age,
            last_visit = excluded.last_visit,
            email = excluded.email
    `)
	for _, d := range diners {
		interests, err := json.Marshal(d.Interests)
		if err != nil {
			return errors.Wrapf(err, "encode interests of diner %d", d.ID)
		}
		if _, err := tx.ExecContext(ctx, query, d.ID, d.Name, d.Location, string(interests), d.Age, d.LastVisit, d.Email); err != nil {
			return errors.Wrapf(err, "upsert diner %d", d.ID)
		}
	}
	return errors.Wrap(tx.Commit(), "commit diner upsert")
}

var _ DinerRepositoryInterface = (*DinerRepository)(nil)
