package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name GameSource --dir ../usecase --output usecase --outpkg usecasemock --filename game_source_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Mailer --dir ../usecase --output usecase --outpkg usecasemock --filename mailer_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/notification --output domain/notification --outpkg notificationmock --filename repository_mock.go
