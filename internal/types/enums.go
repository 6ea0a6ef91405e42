package types

// Role is a member's standing within a household.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

type ChoreStatus string

const (
	ChoreStatusPending    ChoreStatus = "PENDING"
	ChoreStatusInProgress ChoreStatus = "IN_PROGRESS"
	ChoreStatusCompleted  ChoreStatus = "COMPLETED"
)

type SubtaskStatus string

const (
	SubtaskStatusPending    SubtaskStatus = "PENDING"
	SubtaskStatusInProgress SubtaskStatus = "IN_PROGRESS"
	SubtaskStatusCompleted  SubtaskStatus = "COMPLETED"
)

type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusSettled TransactionStatus = "SETTLED"
)

type EventStatus string

const (
	EventStatusScheduled EventStatus = "SCHEDULED"
	EventStatusCompleted EventStatus = "COMPLETED"
	EventStatusCancelled EventStatus = "CANCELLED"
)

type EventCategory string

const (
	EventCategoryGeneral EventCategory = "GENERAL"
	EventCategoryChore   EventCategory = "CHORE"
)

// HistoryAction labels entries in the append-only chore/event history logs.
type HistoryAction string

const (
	HistoryCreated           HistoryAction = "CREATED"
	HistoryUpdated           HistoryAction = "UPDATED"
	HistoryCompleted         HistoryAction = "COMPLETED"
	HistoryStatusChanged     HistoryAction = "STATUS_CHANGED"
	HistoryRecurrenceChanged HistoryAction = "RECURRENCE_CHANGED"
	HistoryDeleted           HistoryAction = "DELETED"
)

type PollType string

const (
	PollTypeSingleChoice   PollType = "SINGLE_CHOICE"
	PollTypeMultipleChoice PollType = "MULTIPLE_CHOICE"
	PollTypeRankedChoice   PollType = "RANKED_CHOICE"
)

type PollStatus string

const (
	PollStatusOpen   PollStatus = "OPEN"
	PollStatusClosed PollStatus = "CLOSED"
)
