package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type accountInput struct {
	Username string `json:"username" validate:"required,alphanum,min=5,max=15"`
	Password string `json:"password" validate:"required,min=6,max=32"`
}

type cardInput struct {
	Front string `json:"front" validate:"required,min=1,max=150"`
	Back  string `json:"back" validate:"required,min=1,max=150"`
}

type deckInput struct {
	Title      string      `json:"title" validate:"required,min=5,max=200"`
	Flashcards []cardInput `json:"flashcards" validate:"required,min=1,dive"`
}

func TestValidateOK(t *testing.T) {
	msgs := Validate(accountInput{Username: "alice123", Password: "secret1"})
	assert.Nil(t, msgs)
}

func TestValidateAggregatesAllFailures(t *testing.T) {
	msgs := Validate(accountInput{Username: "ab", Password: ""})
	assert.Len(t, msgs, 2)
	assert.Contains(t, msgs, "username must be at least 5 characters long")
	assert.Contains(t, msgs, "password is required")
}

func TestValidateAlphanum(t *testing.T) {
	msgs := Validate(accountInput{Username: "has space!", Password: "secret1"})
	assert.Contains(t, msgs, "username must contain only letters and numbers")
}

func TestValidateMissingFlashcards(t *testing.T) {
	msgs := Validate(deckInput{Title: "Valid title"})
	assert.Contains(t, msgs, "flashcards is required")
}

func TestValidateEmptyFlashcards(t *testing.T) {
	msgs := Validate(deckInput{Title: "Valid title", Flashcards: []cardInput{}})
	assert.Contains(t, msgs, "flashcards must contain at least 1 item(s)")
}

func TestValidateNestedFlashcards(t *testing.T) {
	msgs := Validate(deckInput{
		Title:      "Valid title",
		Flashcards: []cardInput{{Front: "", Back: "answer"}},
	})
	assert.Contains(t, msgs, "front is required")
}
