package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nominaplus/payroll-engine/internal/domain/employee"
	"github.com/nominaplus/payroll-engine/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.Repository {
	return &employeeRepository{db: db}
}

// GetByID reads employee_full_view, which pre-joins the active salary row
// and the active contract row onto the employee record.
func (r *employeeRepository) GetByID(ctx context.Context, employeeID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, identification, first_name, surname,
			   salary, salary_type_code, variable_salary, initial_salary_date,
			   COALESCE(end_salary_date, '0001-01-01'::date),
			   code_contract_regime, code_contributor_type, percentage_work_place_risk,
			   transport_assistance, initial_contract_date,
			   COALESCE(end_contract_date, '0001-01-01'::date),
			   COALESCE(vacation_history, 0)
		FROM employee_full_view
		WHERE id = $1
	`

	var e employee.Employee
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&e.ID, &e.CompanyID, &e.Identification, &e.FirstName, &e.Surname,
		&e.Salary, &e.SalaryTypeCode, &e.VariableSalary, &e.InitialSalaryDate, &e.EndSalaryDate,
		&e.CodeContractRegime, &e.CodeContributorType, &e.PercentageWorkPlaceRisk,
		&e.TransportAssistance, &e.InitialContractDate, &e.EndContractDate,
		&e.VacationHistory,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return e, nil
}
