package mysql

const listingColumns = `id, host_id, name, location, min_guest_num, max_guest_num, amenities`

const listListingsSQL = `SELECT ` + listingColumns + ` FROM listings ORDER BY created_at, id`

const getListingSQL = `SELECT ` + listingColumns + ` FROM listings WHERE id = ?`

const insertListingSQL = `
INSERT INTO listings
  (id, host_id, name, location, min_guest_num, max_guest_num, amenities)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
`

const windowColumns = `id, listing_id, host_id, start_at, end_at, price, is_price_per_guest`

const listWindowsSQL = `SELECT ` + windowColumns + ` FROM availability_windows WHERE listing_id = ? ORDER BY start_at, id`

const insertWindowSQL = `
INSERT INTO availability_windows
  (id, listing_id, host_id, start_at, end_at, price, is_price_per_guest)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
`

// Locks the window row so concurrent bookings of one window serialize.
const lockWindowSQL = `SELECT listing_id, start_at, end_at FROM availability_windows WHERE id = ? FOR UPDATE`

// Half-open overlap: back-to-back stays are allowed.
const countOverlapsSQL = `
SELECT COUNT(*) FROM reservations
WHERE availability_window_id = ? AND start_at < ? AND end_at > ?
`

const reservationColumns = `id, availability_window_id, listing_id, host_id, guest_id, start_at, end_at, guest_count, price`

const insertReservationSQL = `
INSERT INTO reservations
  (` + reservationColumns + `)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const listReservationsByGuestSQL = `SELECT ` + reservationColumns + ` FROM reservations WHERE guest_id = ? ORDER BY start_at, id`

const deleteReservationSQL = `DELETE FROM reservations WHERE id = ?`

const insertHostRatingSQL = `INSERT INTO host_ratings (id, host_id, guest_id, rated_at, rating) VALUES (?, ?, ?, ?, ?)`

const insertListingRatingSQL = `
INSERT INTO listing_ratings (id, host_id, guest_id, listing_id, rated_at, rating)
VALUES (?, ?, ?, ?, ?, ?)
`

const listHostRatingsSQL = `
SELECT id, host_id, guest_id, '' AS listing_id, rated_at, rating
FROM host_ratings WHERE host_id = ? ORDER BY rated_at, id
`

const listListingRatingsSQL = `
SELECT id, host_id, guest_id, listing_id, rated_at, rating
FROM listing_ratings WHERE host_id = ? ORDER BY rated_at, id
`
