// Package services holds cross-cutting helpers shared by booksort's external
// collaborator clients: the error taxonomy used to classify failures and
// context annotations that thread the current file and run ID into logs.
package services
