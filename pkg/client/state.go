package client

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

// State keeps the client-local social sets: favorite recipes, followed
// creators and cooked recipes. It is persisted as a JSON file and never
// synced to the server.
type State struct {
	path string

	mu        sync.Mutex
	favorites map[string]bool
	following map[string]bool
	cooked    map[string]bool
}

type stateFile struct {
	Favorites []string `json:"favorites"`
	Following []string `json:"following"`
	Cooked    []string `json:"cooked"`
}

// LoadState reads the state file at path, starting empty if it does not
// exist yet.
func LoadState(path string) (*State, error) {
	s := &State{
		path:      path,
		favorites: make(map[string]bool),
		following: make(map[string]bool),
		cooked:    make(map[string]bool),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var file stateFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	for _, id := range file.Favorites {
		s.favorites[id] = true
	}
	for _, id := range file.Following {
		s.following[id] = true
	}
	for _, id := range file.Cooked {
		s.cooked[id] = true
	}
	return s, nil
}

// save writes the current sets to disk. Callers must hold the mutex.
func (s *State) save() error {
	file := stateFile{
		Favorites: sortedKeys(s.favorites),
		Following: sortedKeys(s.following),
		Cooked:    sortedKeys(s.cooked),
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// toggle flips id in set, persists, and reports the new membership.
func (s *State) toggle(set map[string]bool, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if set[id] {
		delete(set, id)
	} else {
		set[id] = true
	}
	if err := s.save(); err != nil {
		return false, err
	}
	return set[id], nil
}

func (s *State) has(set map[string]bool, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return set[id]
}

func (s *State) list(set map[string]bool) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedKeys(set)
}

// ToggleFavorite flips the favorite mark for a recipe id.
func (s *State) ToggleFavorite(recipeID string) (bool, error) {
	return s.toggle(s.favorites, recipeID)
}

// IsFavorite reports whether the recipe is marked favorite.
func (s *State) IsFavorite(recipeID string) bool {
	return s.has(s.favorites, recipeID)
}

// Favorites lists the favorite recipe ids.
func (s *State) Favorites() []string {
	return s.list(s.favorites)
}

// ToggleFollow flips the follow mark for a creator id.
func (s *State) ToggleFollow(userID string) (bool, error) {
	return s.toggle(s.following, userID)
}

// IsFollowing reports whether the creator is followed.
func (s *State) IsFollowing(userID string) bool {
	return s.has(s.following, userID)
}

// Following lists the followed creator ids.
func (s *State) Following() []string {
	return s.list(s.following)
}

// ToggleCooked flips the cooked mark for a recipe id.
func (s *State) ToggleCooked(recipeID string) (bool, error) {
	return s.toggle(s.cooked, recipeID)
}

// IsCooked reports whether the recipe is marked cooked.
func (s *State) IsCooked(recipeID string) bool {
	return s.has(s.cooked, recipeID)
}

// Cooked lists the cooked recipe ids.
func (s *State) Cooked() []string {
	return s.list(s.cooked)
}
