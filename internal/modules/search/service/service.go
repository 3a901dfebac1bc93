package service

import (
	"encoding/json"
	"log"

	"github.com/globuddy/globuddy-server/internal/entity"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const usersIndex = "users"

// UserDocument is the shape indexed for user search.
type UserDocument struct {
	Username       string  `json:"username"`
	Country        string  `json:"country"`
	Bio            string  `json:"bio"`
	NativeLanguage string  `json:"native_language"`
	AvatarURL      *string `json:"avatar_url,omitempty"`
}

type SearchService interface {
	IndexUser(user *entity.User) error
	DeleteUser(username string) error
	SearchUsers(query string, limit int) ([]UserDocument, error)
}

type searchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *searchService) initIndexes() {
	if s.client == nil {
		return
	}

	searchableAttrs := []string{"username", "bio", "native_language", "country"}
	_, err := s.client.Index(usersIndex).UpdateSearchableAttributes(&searchableAttrs)
	if err != nil {
		log.Printf("Failed to update users searchable attributes: %v", err)
	}
}

func (s *searchService) IndexUser(user *entity.User) error {
	if s.client == nil {
		return nil
	}

	doc := UserDocument{
		Username:       user.Username,
		Country:        user.Country,
		Bio:            s.sanitizer.Sanitize(user.Bio),
		NativeLanguage: user.NativeLanguage,
		AvatarURL:      user.AvatarURL,
	}

	_, err := s.client.Index(usersIndex).AddDocuments([]UserDocument{doc}, strPtr("username"))
	return err
}

func strPtr(s string) *string {
	return &s
}

func (s *searchService) DeleteUser(username string) error {
	if s.client == nil {
		return nil
	}
	_, err := s.client.Index(usersIndex).DeleteDocument(username)
	return err
}

func (s *searchService) SearchUsers(query string, limit int) ([]UserDocument, error) {
	if s.client == nil {
		return nil, nil
	}

	res, err := s.client.Index(usersIndex).Search(query, &meilisearch.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		return nil, err
	}

	docs := make([]UserDocument, 0, len(res.Hits))
	for _, hit := range res.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var doc UserDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		docs = append(docs, doc)
	}

	return docs, nil
}
