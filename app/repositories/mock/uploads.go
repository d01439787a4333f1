package mock

import (
	"errors"
	"sync"

	"newsportal/app/models"
	"newsportal/app/repositories"

	"github.com/google/uuid"
)

// UploadRepository keeps uploaded images in memory.
type UploadRepository struct {
	uploads map[string]models.ImageFile
	mutex   sync.RWMutex
}

func NewUploadRepository() *UploadRepository {
	return &UploadRepository{
		uploads: make(map[string]models.ImageFile),
	}
}

func (m *UploadRepository) Put(img models.ImageFile) (models.ImageFile, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if len(img.Data) == 0 {
		return img, errors.New("upload is empty")
	}
	img.Ref = uuid.NewString()
	img.Size = len(img.Data)
	img.Data = append([]byte(nil), img.Data...)
	m.uploads[img.Ref] = img
	return img, nil
}

func (m *UploadRepository) Get(ref string) (models.ImageFile, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	img, exists := m.uploads[ref]
	if !exists {
		return models.ImageFile{}, repositories.ErrNotFound
	}
	img.Data = append([]byte(nil), img.Data...)
	return img, nil
}

func (m *UploadRepository) Delete(ref string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.uploads[ref]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.uploads, ref)
	return nil
}

// Len reports how many uploads are stored.
func (m *UploadRepository) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.uploads)
}
