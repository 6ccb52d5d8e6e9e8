package overtime

import (
	"context"
	"time"

	"github.com/payflow-hq/payroll-backend-go/internal/domain/employee"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/overtime"
	"github.com/payflow-hq/payroll-backend-go/internal/pkg/finance"
)

type OvertimeServiceImpl struct {
	overtimeRepo     overtime.OvertimeRepository
	employeeRepo     employee.EmployeeRepository
	currencyPlaces   int32
	workDaysPerMonth int
	workHoursPerDay  int
}

func NewOvertimeService(
	overtimeRepo overtime.OvertimeRepository,
	employeeRepo employee.EmployeeRepository,
	currencyPlaces int32,
	workDaysPerMonth int,
	workHoursPerDay int,
) overtime.OvertimeService {
	return &OvertimeServiceImpl{
		overtimeRepo:     overtimeRepo,
		employeeRepo:     employeeRepo,
		currencyPlaces:   currencyPlaces,
		workDaysPerMonth: workDaysPerMonth,
		workHoursPerDay:  workHoursPerDay,
	}
}

func (s *OvertimeServiceImpl) Create(ctx context.Context, req overtime.CreateOvertimeRequest) (overtime.OvertimeResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}
	if !emp.Active {
		return overtime.OvertimeResponse{}, employee.ErrEmployeeInactive
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	created, err := s.overtimeRepo.Create(ctx, overtime.OvertimeRecord{
		EmployeeID:   req.EmployeeID,
		Date:         date,
		Hours:        req.Hours,
		OvertimeType: overtime.Type(req.OvertimeType),
		Status:       overtime.StatusPending,
	})
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}
	return overtime.ToResponse(created), nil
}

func (s *OvertimeServiceImpl) Get(ctx context.Context, id string) (overtime.OvertimeResponse, error) {
	rec, err := s.overtimeRepo.GetByID(ctx, id)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}
	return overtime.ToResponse(rec), nil
}

func (s *OvertimeServiceImpl) List(ctx context.Context, filter overtime.Filter) ([]overtime.OvertimeResponse, error) {
	records, err := s.overtimeRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]overtime.OvertimeResponse, 0, len(records))
	for _, rec := range records {
		result = append(result, overtime.ToResponse(rec))
	}
	return result, nil
}

// Approve fixes the payable amount: approved hours x type multiplier x the
// employee's base hourly rate, all snapshotted on the record so later
// salary changes never move an approved claim.
func (s *OvertimeServiceImpl) Approve(ctx context.Context, id string, req overtime.ApproveOvertimeRequest) (overtime.OvertimeResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeResponse{}, err
	}

	rec, err := s.overtimeRepo.GetByID(ctx, id)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}
	if rec.Status != overtime.StatusPending {
		return overtime.OvertimeResponse{}, &overtime.TransitionError{
			RecordID: rec.ID, Expected: overtime.StatusPending, Actual: rec.Status,
		}
	}

	structure, err := s.employeeRepo.GetActiveSalaryStructure(ctx, rec.EmployeeID)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}
	hourlyRate := structure.HourlyRate
	if !hourlyRate.IsPositive() {
		hourlyRate = finance.HourlyRate(structure.BasicSalary, s.workDaysPerMonth, s.workHoursPerDay, s.currencyPlaces)
	}

	approvedHours := rec.Hours
	if req.ApprovedHours != nil {
		approvedHours = *req.ApprovedHours
	}
	multiplier, _ := rec.OvertimeType.Multiplier()

	now := time.Now()
	rec.Rate = multiplier
	rec.HourlyRate = hourlyRate
	rec.ApprovedHours = approvedHours
	rec.CalculatedAmount = finance.OvertimePay(approvedHours, multiplier, hourlyRate, s.currencyPlaces)
	rec.ApprovedBy = &req.ApproverID
	rec.ApprovedAt = &now
	rec.Status = overtime.StatusApproved

	updated, err := s.overtimeRepo.Update(ctx, rec)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}
	return overtime.ToResponse(updated), nil
}

func (s *OvertimeServiceImpl) Reject(ctx context.Context, id string, req overtime.RejectOvertimeRequest) (overtime.OvertimeResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeResponse{}, err
	}

	rec, err := s.overtimeRepo.GetByID(ctx, id)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}
	if rec.Status != overtime.StatusPending {
		return overtime.OvertimeResponse{}, &overtime.TransitionError{
			RecordID: rec.ID, Expected: overtime.StatusPending, Actual: rec.Status,
		}
	}

	now := time.Now()
	rec.ApprovedBy = &req.ApproverID
	rec.ApprovedAt = &now
	rec.Status = overtime.StatusRejected

	updated, err := s.overtimeRepo.Update(ctx, rec)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}
	return overtime.ToResponse(updated), nil
}

// PullApproved returns the approved, not-yet-consumed records for the
// employee inside the date range. It records nothing; consumption is
// MarkProcessed's job.
func (s *OvertimeServiceImpl) PullApproved(ctx context.Context, employeeID string, from, to time.Time) ([]overtime.OvertimeRecord, error) {
	return s.overtimeRepo.ListApprovedInRange(ctx, employeeID, from, to)
}

// MarkProcessed ties an approved record to the payroll entry that consumed
// it. A record can be consumed at most once.
func (s *OvertimeServiceImpl) MarkProcessed(ctx context.Context, recordID, entryID string) error {
	rec, err := s.overtimeRepo.GetByID(ctx, recordID)
	if err != nil {
		return err
	}
	if rec.Status == overtime.StatusProcessed {
		return overtime.ErrAlreadyProcessed
	}
	if rec.Status != overtime.StatusApproved {
		return &overtime.TransitionError{
			RecordID: rec.ID, Expected: overtime.StatusApproved, Actual: rec.Status,
		}
	}

	rec.ProcessedEntryID = &entryID
	rec.Status = overtime.StatusProcessed

	_, err = s.overtimeRepo.Update(ctx, rec)
	return err
}
