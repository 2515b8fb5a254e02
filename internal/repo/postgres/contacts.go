package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/contacthub/internal/domain/contact"
	"github.com/geocoder89/contacthub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ContactsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewContactsRepo(pool *pgxpool.Pool, prom *observability.Prom) *ContactsRepo {
	return &ContactsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *ContactsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// IsUniqueViolation reports whether err is a Postgres 23505.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *ContactsRepo) Create(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	err := r.observe("contacts.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO contacts (user_id, first_name, last_name, phone_number, email, birth_date)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id, created_at, updated_at`,
			c.UserID, c.FirstName, c.LastName, c.PhoneNumber, c.Email, c.BirthDate,
		).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	})

	if err != nil {
		// the (user_id, lower(email)) unique index is the backstop for
		// concurrent duplicate submissions.
		if IsUniqueViolation(err) {
			return contact.Contact{}, contact.ErrDuplicateEmail
		}

		return contact.Contact{}, err
	}

	return c, nil
}

// EmailExistsForUser is the fast-path duplicate check. Ownership scoping is
// part of the query, never taken from the client.
func (r *ContactsRepo) EmailExistsForUser(ctx context.Context, userID int64, email string) (bool, error) {
	var exists bool

	err := r.observe("contacts.email_exists", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT EXISTS(
				SELECT 1 FROM contacts
				WHERE user_id = $1 AND lower(email) = lower($2)
			)`, userID, email).Scan(&exists)
	})

	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *ContactsRepo) ListByUser(ctx context.Context, userID int64) ([]contact.Contact, error) {
	var out []contact.Contact

	err := r.observe("contacts.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, first_name, last_name, phone_number, email, birth_date, user_id, created_at, updated_at
			 FROM contacts
			 WHERE user_id = $1
			 ORDER BY id ASC`, userID)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]contact.Contact, 0)

		for rows.Next() {
			var c contact.Contact

			err = rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.PhoneNumber, &c.Email, &c.BirthDate, &c.UserID, &c.CreatedAt, &c.UpdatedAt)

			if err != nil {
				return err
			}

			out = append(out, c)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

// GetByID returns a contact only when it exists AND belongs to userID.
// An ownership mismatch is indistinguishable from absence.
func (r *ContactsRepo) GetByID(ctx context.Context, userID, id int64) (contact.Contact, error) {
	var c contact.Contact

	err := r.observe("contacts.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, first_name, last_name, phone_number, email, birth_date, user_id, created_at, updated_at
			 FROM contacts
			 WHERE id = $1 AND user_id = $2`, id, userID,
		).Scan(&c.ID, &c.FirstName, &c.LastName, &c.PhoneNumber, &c.Email, &c.BirthDate, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return contact.Contact{}, contact.ErrNotFound
		}

		return contact.Contact{}, err
	}

	return c, nil
}

func (r *ContactsRepo) Delete(ctx context.Context, userID, id int64) error {
	var tag pgconn.CommandTag

	err := r.observe("contacts.delete", func() error {
		var e error
		tag, e = r.pool.Exec(ctx,
			`DELETE FROM contacts WHERE id = $1 AND user_id = $2`, id, userID)
		return e
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return contact.ErrNotFound
	}

	return nil
}
