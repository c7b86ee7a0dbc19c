// Package menu provides read-only access to the pizza menu plus the fuzzy
// flavor resolution used to interpret user input.
package menu

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repository interface {
	List(ctx context.Context) ([]Entry, error)
	PricesFor(ctx context.Context, flavor string) ([]Entry, error)
	Flavors(ctx context.Context) ([]string, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) List(ctx context.Context) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT p.flavor, s.name, c.name, pr.price::text
		FROM pizzas p
		JOIN prices pr ON p.id = pr.pizza_id
		JOIN sizes  s  ON pr.size_id = s.id
		JOIN crusts c  ON pr.crust_id = c.id
		ORDER BY p.flavor, s.name, c.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *PGRepo) PricesFor(ctx context.Context, flavor string) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT p.flavor, s.name, c.name, pr.price::text
		FROM pizzas p
		JOIN prices pr ON p.id = pr.pizza_id
		JOIN sizes  s  ON pr.size_id = s.id
		JOIN crusts c  ON pr.crust_id = c.id
		WHERE p.flavor = $1
		ORDER BY s.name, c.name
	`, flavor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *PGRepo) Flavors(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT DISTINCT flavor FROM pizzas ORDER BY flavor`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func scanEntries(rows pgx.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var e Entry
		// NUMERIC -> string, then decimal, to avoid float rounding
		var price string
		if err := rows.Scan(&e.PizzaName, &e.Size, &e.Crust, &price); err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(price)
		if err != nil {
			return nil, err
		}
		e.UnitPrice = d
		out = append(out, e)
	}
	return out, rows.Err()
}
