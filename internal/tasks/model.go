package tasks

type Task struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}
