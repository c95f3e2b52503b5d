package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"

	apperrors "branhox/internal/errors"
	"branhox/internal/logger"
)

// CognitoAPI is the part of the Cognito user pool API the provider calls.
type CognitoAPI interface {
	SignUp(ctx context.Context, params *cognitoidentityprovider.SignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error)
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
	GlobalSignOut(ctx context.Context, params *cognitoidentityprovider.GlobalSignOutInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GlobalSignOutOutput, error)
}

// CognitoProvider delegates owner accounts to an AWS Cognito user pool app client.
type CognitoProvider struct {
	client   CognitoAPI
	clientID string
}

// NewCognitoProvider wraps an existing client.
func NewCognitoProvider(client CognitoAPI, clientID string) *CognitoProvider {
	return &CognitoProvider{client: client, clientID: clientID}
}

// NewCognitoProviderFromEnv builds the client from the default AWS credential chain.
func NewCognitoProviderFromEnv(ctx context.Context, region, clientID string) (*CognitoProvider, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return NewCognitoProvider(cognitoidentityprovider.NewFromConfig(cfg), clientID), nil
}

// SignUp registers the owner with email as the username.
func (p *CognitoProvider) SignUp(ctx context.Context, email, password string, profile Profile) (string, error) {
	attrs := []types.AttributeType{
		{Name: aws.String("email"), Value: aws.String(email)},
	}
	if profile.OwnerName != "" {
		attrs = append(attrs, types.AttributeType{Name: aws.String("name"), Value: aws.String(profile.OwnerName)})
	}

	out, err := p.client.SignUp(ctx, &cognitoidentityprovider.SignUpInput{
		ClientId:       aws.String(p.clientID),
		Username:       aws.String(strings.ToLower(email)),
		Password:       aws.String(password),
		UserAttributes: attrs,
	})
	if err != nil {
		return "", mapCognitoError("sign up", err)
	}
	return aws.ToString(out.UserSub), nil
}

// SignIn runs the USER_PASSWORD_AUTH flow.
func (p *CognitoProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	out, err := p.client.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(p.clientID),
		AuthParameters: map[string]string{
			"USERNAME": strings.ToLower(email),
			"PASSWORD": password,
		},
	})
	if err != nil {
		return nil, mapCognitoError("sign in", err)
	}
	if out.AuthenticationResult == nil {
		// A challenge (e.g. NEW_PASSWORD_REQUIRED) is not supported here.
		return nil, apperrors.WithMessage(apperrors.ErrInvalidCredentials, "additional sign-in challenge required")
	}
	return &Session{ProviderToken: aws.ToString(out.AuthenticationResult.AccessToken)}, nil
}

// SignOut revokes every token issued for the session's user.
func (p *CognitoProvider) SignOut(ctx context.Context, providerToken string) error {
	if providerToken == "" {
		return nil
	}
	if _, err := p.client.GlobalSignOut(ctx, &cognitoidentityprovider.GlobalSignOutInput{
		AccessToken: aws.String(providerToken),
	}); err != nil {
		return mapCognitoError("sign out", err)
	}
	return nil
}

func mapCognitoError(op string, err error) error {
	var exists *types.UsernameExistsException
	var notAuthorized *types.NotAuthorizedException
	var notFound *types.UserNotFoundException
	var badPassword *types.InvalidPasswordException

	switch {
	case errors.As(err, &exists):
		return apperrors.Wrap(apperrors.ErrDuplicateEmail, err)
	case errors.As(err, &notAuthorized), errors.As(err, &notFound):
		return apperrors.Wrap(apperrors.ErrInvalidCredentials, err)
	case errors.As(err, &badPassword):
		return apperrors.WithMessage(apperrors.ErrInvalidInput, badPassword.ErrorMessage())
	}
	logger.Get().Errorw("cognito request failed", "op", op, "error", err)
	return apperrors.Wrap(apperrors.ErrAuthProvider, err)
}
