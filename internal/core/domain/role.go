package domain

// Role is the closed set of staff roles in the system. Adding a role means
// extending PermissionsFor, which the compiler and the permission-table tests
// both keep honest.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RoleNurse        Role = "nurse"
	RoleReceptionist Role = "receptionist"
	RoleLabTech      Role = "lab_tech"
	RolePharmacist   Role = "pharmacist"
)

// Roles lists every known role, in a stable order.
var Roles = []Role{
	RoleAdmin,
	RoleDoctor,
	RoleNurse,
	RoleReceptionist,
	RoleLabTech,
	RolePharmacist,
}

// Valid reports whether r is one of the known roles. Unknown roles are denied
// everywhere, even when a caller accidentally allow-lists one.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleNurse, RoleReceptionist, RoleLabTech, RolePharmacist:
		return true
	}
	return false
}

// Clinical reports whether the role requires a license number.
func (r Role) Clinical() bool {
	switch r {
	case RoleDoctor, RoleNurse, RoleLabTech, RolePharmacist:
		return true
	}
	return false
}

// Permission is a named capability checked against a role's granted set.
type Permission string

const (
	// PermissionAll is the admin sentinel: it is never granted to any other
	// role and short-circuits every permission check.
	PermissionAll Permission = "all"

	PermissionViewPatients       Permission = "view_patients"
	PermissionEditPatients       Permission = "edit_patients"
	PermissionViewAppointments   Permission = "view_appointments"
	PermissionManageAppointments Permission = "manage_appointments"
	PermissionViewRecords        Permission = "view_medical_records"
	PermissionEditRecords        Permission = "edit_medical_records"
	PermissionEditLabResults     Permission = "edit_lab_results"
	PermissionViewPrescriptions  Permission = "view_prescriptions"
)

// AllPermissions is the full permission universe, excluding the admin sentinel.
var AllPermissions = []Permission{
	PermissionViewPatients,
	PermissionEditPatients,
	PermissionViewAppointments,
	PermissionManageAppointments,
	PermissionViewRecords,
	PermissionEditRecords,
	PermissionEditLabResults,
	PermissionViewPrescriptions,
}

// PermissionsFor resolves the static permission set for a role. Every non-admin
// role holds a strict subset of AllPermissions; unknown roles hold nothing.
func PermissionsFor(r Role) []Permission {
	switch r {
	case RoleAdmin:
		return []Permission{PermissionAll}
	case RoleDoctor:
		return []Permission{
			PermissionViewPatients,
			PermissionEditPatients,
			PermissionViewAppointments,
			PermissionManageAppointments,
			PermissionViewRecords,
			PermissionEditRecords,
		}
	case RoleNurse:
		return []Permission{
			PermissionViewPatients,
			PermissionViewAppointments,
			PermissionViewRecords,
			PermissionEditRecords,
		}
	case RoleReceptionist:
		return []Permission{
			PermissionViewPatients,
			PermissionEditPatients,
			PermissionViewAppointments,
			PermissionManageAppointments,
		}
	case RoleLabTech:
		return []Permission{
			PermissionViewPatients,
			PermissionViewRecords,
			PermissionEditLabResults,
		}
	case RolePharmacist:
		return []Permission{
			PermissionViewPatients,
			PermissionViewRecords,
			PermissionViewPrescriptions,
		}
	}
	return nil
}

// HasPermission reports whether role r is granted p. The admin sentinel grants
// everything; unknown roles are granted nothing.
func HasPermission(r Role, p Permission) bool {
	for _, granted := range PermissionsFor(r) {
		if granted == PermissionAll || granted == p {
			return true
		}
	}
	return false
}
