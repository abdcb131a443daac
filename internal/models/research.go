package models

// TopicActivity is one topic-modelled text record used by the sunburst chart.
// Date is an ISO date string ("2016-03-14" or a full timestamp).
type TopicActivity struct {
	DBID      int    `gorm:"primaryKey;column:db_id" json:"db_id"`
	Date      string `gorm:"size:32;not null;index" json:"date"`
	Text      string `gorm:"type:text" json:"text"`
	TopicID   int    `gorm:"index" json:"topic_id"`
	TopicName string `gorm:"size:128" json:"topic_name"`
}

// TNSEEmbedding is a 2D t-SNE projection of a classified text
type TNSEEmbedding struct {
	ID        int     `gorm:"primaryKey" json:"id"`
	Label     int     `json:"label"`
	PredLabel int     `json:"pred_label"`
	Correct   string  `gorm:"size:5" json:"correct"` // "True" or "False"
	TnseX     float64 `json:"tnse_x"`
	TnseY     float64 `json:"tnse_y"`
}

// TableName keeps the historical table name used by the analytics export
func (TNSEEmbedding) TableName() string {
	return "tnse_embeddings"
}
