package models

// Department and Employee are reference tables consumed by pass issuance,
// the check-in notification join and the logs report.

type Department struct {
	DeptCode       string `gorm:"column:dept_code;primaryKey;size:50" json:"deptCode"`
	DepartmentName string `gorm:"column:department_name;size:100" json:"departmentName"`
}

type Employee struct {
	EmployeeID     string `gorm:"column:employee_id;primaryKey;size:50" json:"employeeId"`
	Name           string `gorm:"column:name;size:255" json:"name"`
	Email          string `gorm:"column:employee_email;size:255" json:"email"`
	ManagerEmail   string `gorm:"column:manager_email;size:255" json:"managerEmail"`
	DepartmentCode string `gorm:"column:department_code;size:50;index" json:"departmentCode"`

	Department Department `gorm:"foreignKey:DepartmentCode;references:DeptCode" json:"department,omitempty"`
}
