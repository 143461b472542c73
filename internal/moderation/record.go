package moderation

// UserReport is the persistent record left behind by a finished reporter
// session. The session itself is removed from the registry on completion;
// the record stays addressable by id for later moderator responses.
type UserReport struct {
	id     int64
	reg    *Registry
	ref    *MessageRef
	severe bool
	sel    *Selections[ReportState]
}

func (u *UserReport) ID() int64        { return u.id }
func (u *UserReport) Ref() *MessageRef { return u.ref }

func (u *UserReport) HighPriority() bool { return u.severe }

// ActionsTaken is always empty for user reports; nothing is executed before
// a moderator responds.
func (u *UserReport) ActionsTaken() []Action { return nil }

// Summary renders the report the way it was originally filed.
func (u *UserReport) Summary() string {
	r := &Report{severe: u.severe, sel: u.sel, ref: u.ref}
	return r.summarize(u.id, u.reg.MessageMetadata(u.ref))
}
