package domain

// Per-operation permission decisions. Each function answers "may this actor
// perform this action on this target" and returns a forbidden error with the
// user-facing reason on deny. Role gates on routes run before these; the
// checks here cover ownership, which the route alone cannot express.

// CanUpdateClass allows admins to edit any class and professors to edit
// only the classes assigned to them.
func CanUpdateClass(actor *User, class *Class) error {
	if actor.Role == RoleAdmin {
		return nil
	}
	if actor.Role == RoleProfessor && class.ProfessorID == actor.ID {
		return nil
	}
	return Forbidden("No tienes permiso para editar esta clase")
}

// CanViewClassStudents allows admins always and professors for their own
// classes.
func CanViewClassStudents(actor *User, class *Class) error {
	if actor.Role == RoleAdmin {
		return nil
	}
	if actor.Role == RoleProfessor && class.ProfessorID == actor.ID {
		return nil
	}
	return Forbidden("No tienes permiso para ver los estudiantes de esta clase")
}

// CanCancelEnrollment allows admins and the owning student.
func CanCancelEnrollment(actor *User, enrollment *Enrollment) error {
	if actor.Role == RoleAdmin {
		return nil
	}
	if actor.Role == RoleStudent && enrollment.StudentID == actor.ID {
		return nil
	}
	return Forbidden("No tienes permiso para cancelar esta inscripción")
}

// CanDeleteUser forbids self-deletion; everything else is left to the
// cardinality guards in the user service. Self-deletion is a 400, not a
// 403, to match the original API contract.
func CanDeleteUser(actor *User, target *User) error {
	if actor.ID == target.ID {
		return Validation("No puedes eliminar tu propia cuenta")
	}
	return nil
}
