// Package auth реализует выпуск и проверку токенов доступа участников
// (HS256 JWT без серверного хранилища) и шлюз аутентификации, который
// превращает заголовок Authorization в участника из хранилища.
//
// Токены не отзываются: выданный токен действителен до истечения срока,
// независимо от смены пароля или выхода из системы. Ротация секрета
// делает недействительными все выданные токены.
package auth
