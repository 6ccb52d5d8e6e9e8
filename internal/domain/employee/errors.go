package employee

import "errors"

var (
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrSalaryStructureNotFound = errors.New("salary structure not found")
	ErrEmployeeInactive        = errors.New("employee is inactive")
)
