package domain

// SagaState is a node of the reservation state machine.
type SagaState string

const (
	StateStart                 SagaState = "START"
	StateSecurityChecked       SagaState = "SECURITY_CHECKED"
	StateContactsResolved      SagaState = "CONTACTS_RESOLVED"
	StateAvailabilityConfirmed SagaState = "AVAILABILITY_CONFIRMED"
	StateStationsResolved      SagaState = "STATIONS_RESOLVED"
	StateSeatAllocated         SagaState = "SEAT_ALLOCATED"
	StateOrderCommitted        SagaState = "ORDER_COMMITTED"
	StateEnriching             SagaState = "ENRICHING"
	StateDone                  SagaState = "DONE"
	StateAborted               SagaState = "ABORTED"
)

func (s SagaState) Terminal() bool {
	return s == StateDone || s == StateAborted
}
