package models

type User struct {
	Username     string
	PasswordHash string
	Email        string
	PhoneNo      string
	DateOfBirth  string
	Profession   string
	Gender       string
	ProfilePic   []byte
}
