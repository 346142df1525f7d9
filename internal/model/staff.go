package model

// Staff is a member of a supplier's crew.  Deleting the supplier removes
// its staff.
//
// Fields:
//  ID         – primary key identifier (generated).
//  Name       – first name.
//  LastName   – last name.
//  Tasks      – assigned tasks.
//  Role       – role within the crew.
//  SupplierID – supplier employing the staff member.
type Staff struct {
	ID         int64  `json:"stf_id"`        // staff.stf_id
	Name       string `json:"stf_name"`      // staff.stf_name
	LastName   string `json:"stf_last_name"` // staff.stf_last_name
	Tasks      string `json:"stf_tasks"`     // staff.stf_tasks
	Role       string `json:"stf_role"`      // staff.stf_role
	SupplierID int64  `json:"sup_id"`        // staff.sup_id
}
