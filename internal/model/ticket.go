package model

import "time"

// Статус тикета в очереди персонала.
type TicketStatus int

const (
	TicketStatusOpen       TicketStatus = 1
	TicketStatusInProgress TicketStatus = 2
	TicketStatusResolved   TicketStatus = 3
	TicketStatusClosed     TicketStatus = 4
)

func (s TicketStatus) String() string {
	switch s {
	case TicketStatusOpen:
		return "open"
	case TicketStatusInProgress:
		return "in_progress"
	case TicketStatusResolved:
		return "resolved"
	case TicketStatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Valid сообщает, является ли код известным статусом.
func (s TicketStatus) Valid() bool {
	return s >= TicketStatusOpen && s <= TicketStatusClosed
}

// buckets — категории, в которых живут тикеты.
type Bucket struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(64);not null"`

	Tickets []BucketTicket `gorm:"foreignKey:BucketID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// bucket_tickets
type BucketTicket struct {
	ID         int64        `gorm:"primaryKey;autoIncrement"`
	BucketID   int64        `gorm:"not null;index"`
	Title      string       `gorm:"type:varchar(128);not null"`
	CreatorID  int64        `gorm:"not null;index"`
	AssigneeID *int64       `gorm:"index"`
	Status     TicketStatus `gorm:"not null;default:1;index"`

	CreatedAt    time.Time `gorm:"column:created_on"`
	LastModified time.Time

	Bucket   *Bucket `gorm:"foreignKey:BucketID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Creator  *User   `gorm:"foreignKey:CreatorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Assignee *User   `gorm:"foreignKey:AssigneeID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`

	Comments []TicketComment `gorm:"foreignKey:TicketID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Access   []TicketAccess  `gorm:"foreignKey:TicketID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// ticket_comments
type TicketComment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	TicketID  int64     `gorm:"not null;index"`
	AuthorID  int64     `gorm:"not null;index"`
	Comment   string    `gorm:"type:varchar(1024);not null"`
	CreatedAt time.Time `gorm:"column:created_on"`

	Ticket *BucketTicket `gorm:"foreignKey:TicketID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Author *User         `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// ticket_access_lists — кто может читать и писать в тикет.
type TicketAccess struct {
	TicketID int64 `gorm:"primaryKey;autoIncrement:false"`
	UserID   int64 `gorm:"primaryKey;autoIncrement:false;index"`
	CanRead  bool  `gorm:"not null"`
	CanWrite bool  `gorm:"not null;default:false"`

	Ticket *BucketTicket `gorm:"foreignKey:TicketID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	User   *User         `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (TicketAccess) TableName() string {
	return "ticket_access_lists"
}
