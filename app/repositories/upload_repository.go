package repositories

import (
	"errors"
	"time"

	"newsportal/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// uploadChunkSize keeps every value under the in-memory value size limit.
const uploadChunkSize = 512 << 10

type uploadMeta struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
	Chunks      int    `json:"chunks"`
}

// BadgerUploadRepository implements UploadRepository using BadgerDB. An
// image is split into fixed-size chunks next to a metadata entry, all sharing
// one expiry.
type BadgerUploadRepository struct {
	db  *badger.DB
	ttl time.Duration
}

func NewBadgerUploadRepository(db *badger.DB, ttl time.Duration) *BadgerUploadRepository {
	return &BadgerUploadRepository{db: db, ttl: ttl}
}

// Put stores the image under a new reference
func (r *BadgerUploadRepository) Put(img models.ImageFile) (models.ImageFile, error) {
	if len(img.Data) == 0 {
		return img, errors.New("upload is empty")
	}

	ref := uuid.NewString()
	meta := uploadMeta{
		Name:        img.Name,
		ContentType: img.ContentType,
		Size:        len(img.Data),
		Chunks:      (len(img.Data) + uploadChunkSize - 1) / uploadChunkSize,
	}
	metaData, err := marshalEntity(meta)
	if err != nil {
		return img, err
	}

	wb := r.db.NewWriteBatch()
	defer wb.Cancel()

	for n := 0; n < meta.Chunks; n++ {
		end := (n + 1) * uploadChunkSize
		if end > len(img.Data) {
			end = len(img.Data)
		}
		if err := wb.SetEntry(r.entry(uploadChunkKey(ref, n), img.Data[n*uploadChunkSize:end])); err != nil {
			return img, err
		}
	}
	if err := wb.SetEntry(r.entry(uploadMetaKey(ref), metaData)); err != nil {
		return img, err
	}
	if err := wb.Flush(); err != nil {
		return img, err
	}

	img.Ref = ref
	img.Size = meta.Size
	return img, nil
}

// Get reassembles a stored image
func (r *BadgerUploadRepository) Get(ref string) (models.ImageFile, error) {
	var img models.ImageFile

	err := r.db.View(func(txn *badger.Txn) error {
		meta, err := r.meta(txn, ref)
		if err != nil {
			return err
		}

		data := make([]byte, 0, meta.Size)
		for n := 0; n < meta.Chunks; n++ {
			item, err := txn.Get(uploadChunkKey(ref, n))
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			if err != nil {
				return err
			}
			if err := item.Value(func(val []byte) error {
				data = append(data, val...)
				return nil
			}); err != nil {
				return err
			}
		}

		img = models.ImageFile{
			Ref:         ref,
			Name:        meta.Name,
			ContentType: meta.ContentType,
			Size:        meta.Size,
			Data:        data,
		}
		return nil
	})
	return img, err
}

// Delete removes an image and all its chunks
func (r *BadgerUploadRepository) Delete(ref string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		meta, err := r.meta(txn, ref)
		if err != nil {
			return err
		}
		for n := 0; n < meta.Chunks; n++ {
			if err := txn.Delete(uploadChunkKey(ref, n)); err != nil {
				return err
			}
		}
		return txn.Delete(uploadMetaKey(ref))
	})
}

func (r *BadgerUploadRepository) meta(txn *badger.Txn, ref string) (uploadMeta, error) {
	var meta uploadMeta
	item, err := txn.Get(uploadMetaKey(ref))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return meta, ErrNotFound
	}
	if err != nil {
		return meta, err
	}
	err = item.Value(func(val []byte) error {
		return unmarshalEntity(val, &meta)
	})
	return meta, err
}

func (r *BadgerUploadRepository) entry(key, value []byte) *badger.Entry {
	e := badger.NewEntry(key, value)
	if r.ttl > 0 {
		e = e.WithTTL(r.ttl)
	}
	return e
}
