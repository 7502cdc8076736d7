package posts

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("post not found")
	ErrForbidden = errors.New("you can only modify your own posts")

	// ErrInvalid is wrapped by every validation error.
	ErrInvalid = errors.New("invalid post")

	ErrTitleRequired       = fmt.Errorf("%w: title is required", ErrInvalid)
	ErrDescriptionRequired = fmt.Errorf("%w: description is required", ErrInvalid)
	ErrTitleTooLong        = fmt.Errorf("%w: title must be at most %d characters", ErrInvalid, MaxTitleLength)
	ErrDescriptionTooLong  = fmt.Errorf("%w: description must be at most %d characters", ErrInvalid, MaxDescriptionLength)
	ErrImageRequired       = fmt.Errorf("%w: image is required", ErrInvalid)
	ErrImageTooLarge       = fmt.Errorf("%w: image must be at most %d bytes", ErrInvalid, MaxImageBytes)
	ErrImageType           = fmt.Errorf("%w: file is not an image", ErrInvalid)
)
