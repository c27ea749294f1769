package reading

import "time"

type Status string

const (
	StatusToRead    Status = "to_read"
	StatusReading   Status = "reading"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

type ItemType string

const (
	TypeArticle ItemType = "article"
	TypeBook    ItemType = "book"
	TypeVideo   ItemType = "video"
	TypePodcast ItemType = "podcast"
	TypeCourse  ItemType = "course"
	TypeOther   ItemType = "other"
)

type Priority string

const (
	PriorityLow    Priority = "L"
	PriorityMedium Priority = "M"
	PriorityHigh   Priority = "H"
)

// Item is an entry on the reading list. CompletedDate is set when the item
// reaches the completed status and cleared when it leaves it.
type Item struct {
	ID            string
	Title         string
	URL           string
	Content       string
	ItemType      ItemType
	Status        Status
	Priority      Priority
	Tags          []string
	AddedDate     time.Time
	CompletedDate *time.Time
	Notes         string
}
