package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrWrongPassword      = errors.New("current password is incorrect")

	ErrUserNotFound   = errors.New("user not found")
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrTagNotFound    = errors.New("tag not found")

	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following this author")
	ErrFollowNotFound   = errors.New("follow not found")

	ErrAlreadyFavorited  = errors.New("recipe already in favorites")
	ErrFavoriteNotFound  = errors.New("recipe not in favorites")
	ErrAlreadyInCart     = errors.New("recipe already in shopping cart")
	ErrCartEntryNotFound = errors.New("recipe not in shopping cart")

	ErrDuplicateIngredient = errors.New("duplicate ingredient in recipe")
	ErrIngredientNotFound  = errors.New("ingredient not found")
	ErrInvalidCookingTime  = errors.New("cooking time must be at least 1")
	ErrInvalidColor        = errors.New("color must be a hex code")
	ErrNotOwner            = errors.New("only the author can modify this recipe")
)
