package models

// Profile is one row of the `profiles` table, keyed by the auth user id.
type Profile struct {
	ID            string  `json:"id" bson:"_id"`
	Email         string  `json:"email" bson:"email"`
	Username      string  `json:"username" bson:"username"`
	FullName      *string `json:"full_name" bson:"full_name,omitempty"`
	AvatarURL     *string `json:"avatar_url" bson:"avatar_url,omitempty"`
	PaymentLinked bool    `json:"payment_linked" bson:"payment_linked"`
	CreatedAt     string  `json:"created_at" bson:"created_at"`
}
