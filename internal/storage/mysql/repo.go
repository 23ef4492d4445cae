package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	drv "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"stayhub/internal/domain"
)

// MySQL error numbers the repo translates.
const (
	errNoReferencedRow = 1452
	errCheckViolated   = 3819
)

// Repo is the store's persistence. It implements domain.Store.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

var _ domain.Store = (*Repo)(nil)

type scanner interface{ Scan(dest ...any) error }

// ---- Listings ----

func scanListing(s scanner) (domain.Listing, error) {
	var l domain.Listing
	var amenities []byte
	if err := s.Scan(&l.ID, &l.HostID, &l.Name, &l.Location, &l.MinGuestNum, &l.MaxGuestNum, &amenities); err != nil {
		return domain.Listing{}, err
	}
	if len(amenities) > 0 {
		if err := json.Unmarshal(amenities, &l.Amenities); err != nil {
			return domain.Listing{}, fmt.Errorf("listing %s amenities: %w", l.ID, err)
		}
	}
	return l, nil
}

func (r *Repo) ListListings(ctx context.Context) ([]domain.Listing, error) {
	rows, err := r.db.QueryContext(ctx, listListingsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repo) GetListing(ctx context.Context, id string) (domain.Listing, error) {
	l, err := scanListing(r.db.QueryRowContext(ctx, getListingSQL, id))
	if err == sql.ErrNoRows {
		return domain.Listing{}, domain.Errorf(domain.KindNotFound, "get listing", "listing %s not found", id)
	}
	return l, err
}

func (r *Repo) CreateListing(ctx context.Context, l domain.Listing) (domain.Listing, error) {
	l.ID = uuid.NewString()
	if l.Amenities == nil {
		l.Amenities = []string{}
	}
	amen, err := json.Marshal(l.Amenities)
	if err != nil {
		return domain.Listing{}, err
	}
	if _, err := r.db.ExecContext(ctx, insertListingSQL,
		l.ID, l.HostID, l.Name, l.Location, l.MinGuestNum, l.MaxGuestNum, string(amen),
	); err != nil {
		return domain.Listing{}, translate("create listing", err)
	}
	return l, nil
}

// ---- Availability ----

func (r *Repo) ListAvailability(ctx context.Context, listingID string) ([]domain.AvailabilityWindow, error) {
	rows, err := r.db.QueryContext(ctx, listWindowsSQL, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.AvailabilityWindow
	for rows.Next() {
		var w domain.AvailabilityWindow
		if err := rows.Scan(&w.ID, &w.ListingID, &w.HostID, &w.Start, &w.End, &w.Price, &w.IsPricePerGuest); err != nil {
			return nil, err
		}
		w.Start, w.End = w.Start.UTC(), w.End.UTC()
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *Repo) CreateAvailability(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error) {
	w.ID = uuid.NewString()
	w.Start, w.End = w.Start.UTC(), w.End.UTC()
	if _, err := r.db.ExecContext(ctx, insertWindowSQL,
		w.ID, w.ListingID, w.HostID, w.Start, w.End, w.Price, w.IsPricePerGuest,
	); err != nil {
		return domain.AvailabilityWindow{}, translate("create availability", err)
	}
	return w, nil
}

// ---- Reservations ----

// CreateReservation inserts r unless it overlaps another reservation of the
// same window. The window row is locked for the duration of the check.
func (r *Repo) CreateReservation(ctx context.Context, res domain.Reservation) (out domain.Reservation, err error) {
	const op = "create reservation"
	res = res.Normalized()
	res.ID = uuid.NewString()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Reservation{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var listingID string
	var win domain.DateRange
	if err = tx.QueryRowContext(ctx, lockWindowSQL, res.AvailabilityWindowID).Scan(&listingID, &win.Start, &win.End); err != nil {
		if err == sql.ErrNoRows {
			return domain.Reservation{}, domain.Errorf(domain.KindNotFound, op, "availability window %s not found", res.AvailabilityWindowID)
		}
		return domain.Reservation{}, err
	}
	if listingID != res.ListingID {
		return domain.Reservation{}, domain.Errorf(domain.KindValidation, op, "window %s does not belong to listing %s", res.AvailabilityWindowID, res.ListingID)
	}
	if !domain.NewDateRange(win.Start, win.End).Contains(res.Range()) {
		return domain.Reservation{}, domain.Errorf(domain.KindOutOfBounds, op, "reservation is outside its availability window")
	}

	var n int
	if err = tx.QueryRowContext(ctx, countOverlapsSQL, res.AvailabilityWindowID, res.End, res.Start).Scan(&n); err != nil {
		return domain.Reservation{}, err
	}
	if n > 0 {
		err = fmt.Errorf("%s %s..%s: %w", op, res.Start.Format(domain.DayLayout), res.End.Format(domain.DayLayout), domain.ErrOverlap)
		return domain.Reservation{}, err
	}

	if _, err = tx.ExecContext(ctx, insertReservationSQL,
		res.ID, res.AvailabilityWindowID, res.ListingID, res.HostID, res.GuestID,
		res.Start, res.End, res.GuestCount, res.Price,
	); err != nil {
		return domain.Reservation{}, translate(op, err)
	}
	if err = tx.Commit(); err != nil {
		return domain.Reservation{}, err
	}
	return res, nil
}

func (r *Repo) ListReservationsByGuest(ctx context.Context, guestID string) ([]domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, listReservationsByGuestSQL, guestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(&res.ID, &res.AvailabilityWindowID, &res.ListingID, &res.HostID, &res.GuestID,
			&res.Start, &res.End, &res.GuestCount, &res.Price); err != nil {
			return nil, err
		}
		out = append(out, res.Normalized())
	}
	return out, rows.Err()
}

func (r *Repo) DeleteReservation(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteReservationSQL, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.Errorf(domain.KindNotFound, "delete reservation", "reservation %s not found", id)
	}
	return nil
}

// ---- Ratings ----

func (r *Repo) CreateListingRating(ctx context.Context, rt domain.Rating) (domain.Rating, error) {
	rt.ID = uuid.NewString()
	rt.Time = rt.Time.UTC()
	if _, err := r.db.ExecContext(ctx, insertListingRatingSQL,
		rt.ID, rt.HostID, rt.GuestID, rt.ListingID, rt.Time, rt.Score,
	); err != nil {
		return domain.Rating{}, translate("create listing rating", err)
	}
	return rt, nil
}

func (r *Repo) CreateHostRating(ctx context.Context, rt domain.Rating) (domain.Rating, error) {
	rt.ID = uuid.NewString()
	rt.Time = rt.Time.UTC()
	rt.ListingID = ""
	if _, err := r.db.ExecContext(ctx, insertHostRatingSQL,
		rt.ID, rt.HostID, rt.GuestID, rt.Time, rt.Score,
	); err != nil {
		return domain.Rating{}, translate("create host rating", err)
	}
	return rt, nil
}

func (r *Repo) ListHostRatings(ctx context.Context, hostID string) (domain.HostRatings, error) {
	out := domain.HostRatings{HostID: hostID}
	var err error
	if out.HostRatings, err = r.ratings(ctx, listHostRatingsSQL, hostID); err != nil {
		return domain.HostRatings{}, err
	}
	if out.ListingRatings, err = r.ratings(ctx, listListingRatingsSQL, hostID); err != nil {
		return domain.HostRatings{}, err
	}
	return out, nil
}

func (r *Repo) ratings(ctx context.Context, query, hostID string) ([]domain.Rating, error) {
	rows, err := r.db.QueryContext(ctx, query, hostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Rating
	for rows.Next() {
		var rt domain.Rating
		if err := rows.Scan(&rt.ID, &rt.HostID, &rt.GuestID, &rt.ListingID, &rt.Time, &rt.Score); err != nil {
			return nil, err
		}
		rt.Time = rt.Time.UTC()
		out = append(out, rt)
	}
	return out, rows.Err()
}

// translate turns constraint violations into validation errors so the store
// answers 400 rather than 500.
func translate(op string, err error) error {
	var me *drv.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case errNoReferencedRow:
			return &domain.Error{Kind: domain.KindValidation, Op: op, Msg: "referenced record does not exist", Err: err}
		case errCheckViolated:
			return &domain.Error{Kind: domain.KindValidation, Op: op, Msg: "record violates a constraint", Err: err}
		}
	}
	return err
}
