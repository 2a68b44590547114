package api

import (
	"time"

	"taskhub/internal/model"
)

// dueDateLayout is the wire format for task due dates.
const dueDateLayout = "2006-01-02"

type categoryResource struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newCategoryResource(c model.TaskCategory) categoryResource {
	return categoryResource{
		ID:          c.ID,
		UserID:      c.UserID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type priorityResource struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Level     int       `json:"level"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newPriorityResource(p model.TaskPriority) priorityResource {
	return priorityResource{
		ID:        p.ID,
		Name:      p.Name,
		Level:     p.Level,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type statusResource struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newStatusResource(st model.TaskStatus) statusResource {
	return statusResource{
		ID:        st.ID,
		Name:      st.Name,
		Order:     st.Order,
		CreatedAt: st.CreatedAt,
		UpdatedAt: st.UpdatedAt,
	}
}

type taskResource struct {
	ID          uint    `json:"id"`
	CategoryID  uint    `json:"category_id"`
	StatusID    *uint   `json:"status_id"`
	PriorityID  *uint   `json:"priority_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Text        string  `json:"text"`
	DueDate     *string `json:"due_date"`
}

func newTaskResource(t model.Task) taskResource {
	var dueDate *string
	if t.DueDate != nil {
		formatted := t.DueDate.Format(dueDateLayout)
		dueDate = &formatted
	}
	return taskResource{
		ID:          t.ID,
		CategoryID:  t.CategoryID,
		StatusID:    t.StatusID,
		PriorityID:  t.PriorityID,
		Name:        t.Name,
		Description: t.Description,
		Text:        t.Text,
		DueDate:     dueDate,
	}
}
