package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/one-blood/donation-service/internal/domain"
)

// DonationFilter captures listing parameters for donation requests.
type DonationFilter struct {
	RequesterEmail *string
	Status         *domain.DonationStatus
	RecentFirst    bool
	Limit          int
}

// DonationRequestRepository encapsulates donation request persistence. The
// mutating operations are conditional on the current status: the store's
// compare-and-set is what makes concurrent claims safe, not any in-process
// lock.
type DonationRequestRepository interface {
	Create(ctx context.Context, req *domain.DonationRequest) error
	GetByID(ctx context.Context, id string) (*domain.DonationRequest, error)
	List(ctx context.Context, filter DonationFilter) ([]domain.DonationRequest, error)
	// Claim atomically moves a pending request to inprogress while merging
	// donor info. pgx.ErrNoRows means no pending row matched the id.
	Claim(ctx context.Context, id string, donor domain.DonorInfo) error
	// SetStatusFrom moves the request to a new status only if its current
	// status is in the from set. pgx.ErrNoRows means no row matched.
	SetStatusFrom(ctx context.Context, id string, to domain.DonationStatus, from []domain.DonationStatus) error
	// UpdateDetails rewrites the correctable fields while the request is
	// still pending. pgx.ErrNoRows means no pending row matched the id.
	UpdateDetails(ctx context.Context, req *domain.DonationRequest) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type donationRequestRepository struct {
	pool *pgxpool.Pool
}

// NewDonationRequestRepository instantiates the Postgres-backed repository.
func NewDonationRequestRepository(pool *pgxpool.Pool) DonationRequestRepository {
	return &donationRequestRepository{pool: pool}
}

const donationColumns = `id, requester_email, requester_name, recipient_name, recipient_district, recipient_upazila,
               hospital_name, full_address, blood_group, donation_date, donation_time, request_message,
               donation_status, donor_name, donor_email, created_at, updated_at`

func (r *donationRequestRepository) Create(ctx context.Context, req *domain.DonationRequest) error {
	const query = `
        INSERT INTO donation_requests (requester_email, requester_name, recipient_name, recipient_district,
            recipient_upazila, hospital_name, full_address, blood_group, donation_date, donation_time,
            request_message, donation_status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		req.RequesterEmail,
		req.RequesterName,
		req.RecipientName,
		req.RecipientDistrict,
		req.RecipientUpazila,
		req.HospitalName,
		req.FullAddress,
		req.BloodGroup,
		req.DonationDate,
		req.DonationTime,
		req.RequestMessage,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
}

func (r *donationRequestRepository) GetByID(ctx context.Context, id string) (*domain.DonationRequest, error) {
	query := `SELECT ` + donationColumns + ` FROM donation_requests WHERE id=$1`

	row := r.pool.QueryRow(ctx, query, id)
	req, err := scanDonationRequest(row)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *donationRequestRepository) List(ctx context.Context, filter DonationFilter) ([]domain.DonationRequest, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.RequesterEmail != nil {
		args = append(args, *filter.RequesterEmail)
		clauses = append(clauses, fmt.Sprintf("requester_email=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("donation_status=$%d", len(args)))
	}

	order := "created_at ASC"
	if filter.RecentFirst {
		order = "created_at DESC"
	}

	query := fmt.Sprintf(`SELECT %s FROM donation_requests WHERE %s ORDER BY %s`,
		donationColumns, strings.Join(clauses, " AND "), order)
	if filter.Limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DonationRequest
	for rows.Next() {
		req, err := scanDonationRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *req)
	}
	return result, rows.Err()
}

func (r *donationRequestRepository) Claim(ctx context.Context, id string, donor domain.DonorInfo) error {
	const query = `
        UPDATE donation_requests
        SET donation_status=$1, donor_name=$2, donor_email=$3, updated_at=NOW()
        WHERE id=$4 AND donation_status=$5`

	cmd, err := r.pool.Exec(ctx, query,
		domain.DonationStatusInProgress,
		donor.Name,
		donor.Email,
		id,
		domain.DonationStatusPending,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *donationRequestRepository) SetStatusFrom(ctx context.Context, id string, to domain.DonationStatus, from []domain.DonationStatus) error {
	args := []any{to, id}
	placeholders := make([]string, len(from))
	for i, status := range from {
		args = append(args, status)
		placeholders[i] = fmt.Sprintf("$%d", len(args))
	}

	query := fmt.Sprintf(`
        UPDATE donation_requests SET donation_status=$1, updated_at=NOW()
        WHERE id=$2 AND donation_status IN (%s)`, strings.Join(placeholders, ","))

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *donationRequestRepository) UpdateDetails(ctx context.Context, req *domain.DonationRequest) error {
	const query = `
        UPDATE donation_requests
        SET recipient_name=$1, recipient_district=$2, recipient_upazila=$3, hospital_name=$4,
            full_address=$5, blood_group=$6, donation_date=$7, donation_time=$8, request_message=$9,
            updated_at=NOW()
        WHERE id=$10 AND donation_status=$11`

	cmd, err := r.pool.Exec(ctx, query,
		req.RecipientName,
		req.RecipientDistrict,
		req.RecipientUpazila,
		req.HospitalName,
		req.FullAddress,
		req.BloodGroup,
		req.DonationDate,
		req.DonationTime,
		req.RequestMessage,
		req.ID,
		domain.DonationStatusPending,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *donationRequestRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM donation_requests WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *donationRequestRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM donation_requests`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanDonationRequest(row pgx.Row) (*domain.DonationRequest, error) {
	var req domain.DonationRequest
	var donorName, donorEmail *string
	if err := row.Scan(
		&req.ID,
		&req.RequesterEmail,
		&req.RequesterName,
		&req.RecipientName,
		&req.RecipientDistrict,
		&req.RecipientUpazila,
		&req.HospitalName,
		&req.FullAddress,
		&req.BloodGroup,
		&req.DonationDate,
		&req.DonationTime,
		&req.RequestMessage,
		&req.Status,
		&donorName,
		&donorEmail,
		&req.CreatedAt,
		&req.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if donorName != nil && donorEmail != nil {
		req.Donor = &domain.DonorInfo{Name: *donorName, Email: *donorEmail}
	}
	return &req, nil
}
